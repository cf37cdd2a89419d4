package quote

import (
	"fmt"
	"strings"
	"time"

	"StockTrader/internal/model"
)

// mockStock is one entry of the built-in table.
type mockStock struct {
	code   string
	name   string
	market string
	price  float64
}

var mockStocks = []mockStock{
	{"000001", "平安银行", "SZ", 12.35},
	{"000002", "万科A", "SZ", 8.12},
	{"600000", "浦发银行", "SH", 7.89},
	{"600036", "招商银行", "SH", 34.50},
	{"000858", "五粮液", "SZ", 142.80},
	{"600519", "贵州茅台", "SH", 1680.00},
	{"002415", "海康威视", "SZ", 31.26},
	{"600276", "恒瑞医药", "SH", 45.73},
}

// MockSource serves fixed data for development and offline runs.
type MockSource struct {
	// Prices overrides the built-in table when set, keyed by stock code.
	Prices map[string]float64
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchPrice(code string) (float64, error) {
	if m.Prices != nil {
		if p, ok := m.Prices[code]; ok {
			return p, nil
		}
	}
	for _, s := range mockStocks {
		if s.code == code {
			return s.price, nil
		}
	}
	return 0, fmt.Errorf("unknown stock code: %s", code)
}

func (m *MockSource) FetchQuote(code string) (*model.StockQuote, error) {
	for _, s := range mockStocks {
		if s.code == code {
			price := s.price
			if m.Prices != nil {
				if p, ok := m.Prices[code]; ok {
					price = p
				}
			}
			return &model.StockQuote{
				Code:      s.code,
				Name:      s.name,
				Price:     price,
				Timestamp: time.Now(),
			}, nil
		}
	}
	return nil, fmt.Errorf("unknown stock code: %s", code)
}

// Search filters the built-in table by code or name substring, capped at 10
// results.
func (m *MockSource) Search(query string) ([]model.StockMatch, error) {
	var matches []model.StockMatch
	for _, s := range mockStocks {
		if !strings.Contains(s.code, query) && !strings.Contains(s.name, query) {
			continue
		}
		matches = append(matches, model.StockMatch{
			Code:   s.code,
			Name:   s.name,
			Market: s.market,
			Type:   "股票",
		})
		if len(matches) == 10 {
			break
		}
	}
	return matches, nil
}
