package model

import "time"

// Stock is the cached view of a stock, keyed by code.
type Stock struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	CurrentPrice *float64   `json:"current_price,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// StockQuote is a live quote returned by a price source.
type StockQuote struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// StockMatch is one result of a stock code/name search.
type StockMatch struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"` // "SH", "SZ", "OTHER"
	Type   string `json:"type,omitempty"`
}
