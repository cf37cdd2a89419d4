package model

import "time"

// Trade is a single buy record. It is immutable once created: edits replace
// every field except ID and CreatedAt. ID is zero until the trade is persisted.
type Trade struct {
	ID        int64     `json:"id,omitempty"`
	StockCode string    `json:"stock_code"`
	StockName string    `json:"stock_name"`
	BuyPrice  float64   `json:"buy_price"`
	BuyTime   time.Time `json:"buy_time"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Investment returns the cost basis of the trade.
func (t *Trade) Investment() float64 {
	return t.BuyPrice * float64(t.Quantity)
}
