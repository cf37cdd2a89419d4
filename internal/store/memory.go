package store

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"StockTrader/internal/model"
)

// MemoryStore keeps everything in process memory. It backs tests and serves
// as the fallback when the SQLite database cannot be opened; data does not
// survive a restart.
type MemoryStore struct {
	mu        sync.Mutex
	nextID    int64
	trades    map[int64]*model.Trade
	stocks    map[string]*model.Stock
	settings  map[string]string
	snapshots []PortfolioSnapshot
}

// NewMemoryStore creates an empty store with default settings seeded.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		trades: make(map[int64]*model.Trade),
		stocks: make(map[string]*model.Stock),
		settings: map[string]string{
			KeyBuyStepPercentage:   defaultBuyStepPercentage,
			KeyAnnualReturnRate:    defaultAnnualReturnRate,
			KeyNotificationEnabled: "true",
		},
	}
}

func (s *MemoryStore) CreateTrade(trade *model.Trade) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *trade
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.trades[stored.ID] = &stored
	return stored.ID, nil
}

func (s *MemoryStore) ListTrades() ([]*model.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades := make([]*model.Trade, 0, len(s.trades))
	for _, t := range s.trades {
		copied := *t
		trades = append(trades, &copied)
	}
	sort.Slice(trades, func(i, j int) bool {
		return trades[i].BuyTime.After(trades[j].BuyTime)
	})
	return trades, nil
}

func (s *MemoryStore) UpdateTrade(trade *model.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.trades[trade.ID]
	if !ok {
		return fmt.Errorf("update trade: id %d not found", trade.ID)
	}
	updated := *trade
	updated.CreatedAt = existing.CreatedAt
	s.trades[trade.ID] = &updated
	return nil
}

func (s *MemoryStore) DeleteTrade(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.trades, id)
	return nil
}

func (s *MemoryStore) UpsertStock(stock *model.Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *stock
	s.stocks[stock.Code] = &copied
	return nil
}

func (s *MemoryStore) ListStocks() ([]*model.Stock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stocks := make([]*model.Stock, 0, len(s.stocks))
	for _, st := range s.stocks {
		copied := *st
		stocks = append(stocks, &copied)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Code < stocks[j].Code })
	return stocks, nil
}

func (s *MemoryStore) GetSetting(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.settings[key]
	return value, ok, nil
}

func (s *MemoryStore) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}

func (s *MemoryStore) LoadPolicy() (model.Policy, error) {
	step, ok, _ := s.GetSetting(KeyBuyStepPercentage)
	if !ok {
		step = defaultBuyStepPercentage
	}
	rate, ok, _ := s.GetSetting(KeyAnnualReturnRate)
	if !ok {
		rate = defaultAnnualReturnRate
	}

	var policy model.Policy
	var err error
	policy.BuyStepPercentage, err = strconv.ParseFloat(step, 64)
	if err != nil {
		return policy, fmt.Errorf("parse %s: %w", KeyBuyStepPercentage, err)
	}
	policy.AnnualReturnRate, err = strconv.ParseFloat(rate, 64)
	if err != nil {
		return policy, fmt.Errorf("parse %s: %w", KeyAnnualReturnRate, err)
	}
	return policy, nil
}

func (s *MemoryStore) SavePolicy(policy model.Policy) error {
	if err := s.SetSetting(KeyBuyStepPercentage, strconv.FormatFloat(policy.BuyStepPercentage, 'f', -1, 64)); err != nil {
		return err
	}
	return s.SetSetting(KeyAnnualReturnRate, strconv.FormatFloat(policy.AnnualReturnRate, 'f', -1, 64))
}

func (s *MemoryStore) RecordSnapshot(snap *PortfolioSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, *snap)
	return nil
}

// Snapshots returns recorded history, oldest first. Test helper.
func (s *MemoryStore) Snapshots() []PortfolioSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PortfolioSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

func (s *MemoryStore) Close() error { return nil }
