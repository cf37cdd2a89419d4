package calculator

import (
	"math"
	"time"

	"StockTrader/internal/model"
)

// minHoldingDays floors the holding period so very recent purchases are not
// assigned unrealistically low sell targets.
const minHoldingDays = 30

// daysPerYear is the banker's-year convention used for the daily rate.
// Intentionally 360, not 365.
const daysPerYear = 360.0

// DaysHeld returns the number of whole days elapsed between buyTime and now.
// The result is negative when buyTime lies in the future; callers must treat
// that as a valid, if unusual, value.
func DaysHeld(buyTime, now time.Time) int {
	return int(math.Floor(now.Sub(buyTime).Hours() / 24))
}

// SellTargetPrice computes the price at which the position meets the target
// annualized yield: buyPrice × (1 + rate/360 × max(daysHeld, 30)).
func SellTargetPrice(buyPrice, annualReturnRate float64, daysHeld int) float64 {
	effectiveDays := daysHeld
	if effectiveDays < minHoldingDays {
		effectiveDays = minHoldingDays
	}
	dailyRate := annualReturnRate / daysPerYear
	return buyPrice * (1 + dailyRate*float64(effectiveDays))
}

// BuyTargetPrice sits one buy step below the sell target:
// sellTargetPrice × (1 − buyStepPercentage).
func BuyTargetPrice(sellTargetPrice, buyStepPercentage float64) float64 {
	return sellTargetPrice * (1 - buyStepPercentage)
}

// CheckTarget classifies the current price against the two targets. The sell
// comparison runs first, so it wins when degenerate settings place the buy
// target at or above the sell target.
func CheckTarget(currentPrice, sellTargetPrice, buyTargetPrice float64) model.Signal {
	if currentPrice >= sellTargetPrice {
		return model.SignalSell
	}
	if currentPrice <= buyTargetPrice {
		return model.SignalBuy
	}
	return model.SignalNone
}

// CalculateTargets derives the full price-target state for one trade at the
// given evaluation time. A nil currentPrice yields SignalNone; the calculator
// never fetches a price itself.
func CalculateTargets(trade *model.Trade, buyStepPercentage, annualReturnRate float64, currentPrice *float64, now time.Time) model.PriceCalculation {
	daysHeld := DaysHeld(trade.BuyTime, now)
	sellTarget := SellTargetPrice(trade.BuyPrice, annualReturnRate, daysHeld)
	buyTarget := BuyTargetPrice(sellTarget, buyStepPercentage)

	reached := model.SignalNone
	if currentPrice != nil {
		reached = CheckTarget(*currentPrice, sellTarget, buyTarget)
	}

	return model.PriceCalculation{
		SellTargetPrice:   sellTarget,
		BuyTargetPrice:    buyTarget,
		DaysSincePurchase: daysHeld,
		CurrentPrice:      currentPrice,
		PriceReached:      reached,
	}
}
