package model

// Signal classifies the current price against the buy/sell targets.
type Signal string

const (
	SignalSell Signal = "sell"
	SignalBuy  Signal = "buy"
	SignalNone Signal = "none"
)

// Policy holds the two calculation parameters. It is passed explicitly to every
// calculation; the engine keeps no ambient copy.
type Policy struct {
	BuyStepPercentage float64 `json:"buy_step_percentage"`
	AnnualReturnRate  float64 `json:"annual_return_rate"`
}

// PriceCalculation is the derived target state for one trade. It is recomputed
// on demand and never persisted.
type PriceCalculation struct {
	SellTargetPrice   float64  `json:"sell_target_price"`
	BuyTargetPrice    float64  `json:"buy_target_price"`
	DaysSincePurchase int      `json:"days_since_purchase"`
	CurrentPrice      *float64 `json:"current_price,omitempty"`
	PriceReached      Signal   `json:"price_reached"`
}
