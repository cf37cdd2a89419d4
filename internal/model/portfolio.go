package model

// Overview aggregates investment, value, and gain statistics across all trades.
type Overview struct {
	TotalInvestment            float64 `json:"total_investment"`
	TotalCurrentValue          float64 `json:"total_current_value"`
	TotalUnrealizedGain        float64 `json:"total_unrealized_gain"`
	TotalUnrealizedGainPercent float64 `json:"total_unrealized_gain_percent"`
	SellSignals                int     `json:"sell_signals"`
	BuySignals                 int     `json:"buy_signals"`
	TotalTrades                int     `json:"total_trades"`
	TotalStocks                int     `json:"total_stocks"`
}

// SignalEntry is one active signal attached to a stock summary.
type SignalEntry struct {
	Type        Signal  `json:"type"`
	TradeID     int64   `json:"trade_id"`
	TargetPrice float64 `json:"target_price"`
}

// StockSummary is the per-stock-code rollup of quantity, cost, value, and
// active signals.
type StockSummary struct {
	Code                  string        `json:"code"`
	Name                  string        `json:"name"`
	TotalQuantity         int           `json:"total_quantity"`
	AveragePrice          float64       `json:"average_price"`
	CurrentPrice          *float64      `json:"current_price,omitempty"`
	TotalValue            float64       `json:"total_value"`
	UnrealizedGain        float64       `json:"unrealized_gain"`
	UnrealizedGainPercent float64       `json:"unrealized_gain_percent"`
	Signals               []SignalEntry `json:"signals"`
}

// PortfolioAnalysis is the full output of one analysis pass.
type PortfolioAnalysis struct {
	Overview     Overview                   `json:"overview"`
	Stocks       []StockSummary             `json:"stocks"`
	Calculations map[int64]PriceCalculation `json:"calculations"`
}

// Alert pairs a trade with its calculation when a target has been reached.
type Alert struct {
	Trade       *Trade           `json:"trade"`
	Calculation PriceCalculation `json:"calculation"`
	Type        Signal           `json:"type"`
	Message     string           `json:"message"`
}
