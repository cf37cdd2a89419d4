package store

import "StockTrader/internal/model"

// Settings keys seeded on first open.
const (
	KeyBuyStepPercentage   = "buy_step_percentage"
	KeyAnnualReturnRate    = "annual_return_rate"
	KeyNotificationEnabled = "notification_enabled"
)

// PortfolioSnapshot is one recorded point of portfolio history.
type PortfolioSnapshot struct {
	RunID                 string
	TotalInvestment       float64
	TotalCurrentValue     float64
	TotalUnrealizedGain   float64
	UnrealizedGainPercent float64
	SellSignals           int
	BuySignals            int
	TotalTrades           int
	TotalStocks           int
}

// Store persists trades, cached stock prices, settings, and analysis history.
type Store interface {
	CreateTrade(trade *model.Trade) (int64, error)
	ListTrades() ([]*model.Trade, error)
	UpdateTrade(trade *model.Trade) error
	DeleteTrade(id int64) error

	UpsertStock(stock *model.Stock) error
	ListStocks() ([]*model.Stock, error)

	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	LoadPolicy() (model.Policy, error)
	SavePolicy(policy model.Policy) error

	RecordSnapshot(snap *PortfolioSnapshot) error

	Close() error
}
