package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockTrader/internal/model"
)

// RESTSource implements Source against a quote REST API.
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTSource creates a source with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string) *RESTSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (s *RESTSource) Name() string { return "rest" }

// restQuote is the expected JSON shape of the quote endpoint.
type restQuote struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Timestamp     int64   `json:"timestamp"`
}

// restMatch is the expected JSON shape of the search endpoint.
type restMatch struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
	Type   string `json:"type"`
}

func (s *RESTSource) FetchPrice(code string) (float64, error) {
	quote, err := s.FetchQuote(code)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

func (s *RESTSource) FetchQuote(code string) (*model.StockQuote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?code=%s", s.BaseURL, url.QueryEscape(code))
	var rq restQuote
	if err := s.getJSON(endpoint, &rq); err != nil {
		return nil, fmt.Errorf("fetch quote %s: %w", code, err)
	}
	return &model.StockQuote{
		Code:          rq.Code,
		Name:          rq.Name,
		Price:         rq.Price,
		Change:        rq.Change,
		ChangePercent: rq.ChangePercent,
		Timestamp:     time.Unix(rq.Timestamp, 0),
	}, nil
}

func (s *RESTSource) Search(query string) ([]model.StockMatch, error) {
	endpoint := fmt.Sprintf("%s/api/v1/search?q=%s", s.BaseURL, url.QueryEscape(query))
	var rms []restMatch
	if err := s.getJSON(endpoint, &rms); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	matches := make([]model.StockMatch, len(rms))
	for i, rm := range rms {
		matches[i] = model.StockMatch{Code: rm.Code, Name: rm.Name, Market: rm.Market, Type: rm.Type}
	}
	return matches, nil
}

func (s *RESTSource) getJSON(endpoint string, out any) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
