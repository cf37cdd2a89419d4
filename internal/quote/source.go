package quote

import (
	"log"

	"StockTrader/internal/model"
)

// Source provides current prices and stock lookups on demand. The engine
// itself never fetches; callers build a price snapshot and pass it in.
type Source interface {
	FetchPrice(code string) (float64, error)
	FetchQuote(code string) (*model.StockQuote, error)
	Search(query string) ([]model.StockMatch, error)
	Name() string
}

// Snapshot fetches current prices for the given codes. Codes that fail to
// resolve are left out of the map; a missing entry means "price unknown"
// downstream, never an error.
func Snapshot(src Source, codes []string) map[string]float64 {
	prices := make(map[string]float64, len(codes))
	for _, code := range codes {
		price, err := src.FetchPrice(code)
		if err != nil {
			log.Printf("[WARN] fetch price for %s: %v", code, err)
			continue
		}
		prices[code] = price
	}
	return prices
}
