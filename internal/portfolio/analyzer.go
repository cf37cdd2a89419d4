package portfolio

import (
	"time"

	"StockTrader/internal/calculator"
	"StockTrader/internal/model"
)

// Analyzer folds trades and a caller-supplied price snapshot into portfolio
// views. It holds a policy snapshot taken at construction; build a new
// Analyzer when settings change. Safe for concurrent use: every method is a
// pure fold over its arguments.
type Analyzer struct {
	Policy model.Policy
	Now    func() time.Time
}

// NewAnalyzer creates an Analyzer evaluating against the real clock.
func NewAnalyzer(policy model.Policy) *Analyzer {
	return &Analyzer{Policy: policy, Now: time.Now}
}

// CalculateTargets computes the price-target state for a single trade.
// currentPrice may be nil when no price is known.
func (a *Analyzer) CalculateTargets(trade *model.Trade, currentPrice *float64) model.PriceCalculation {
	return calculator.CalculateTargets(trade, a.Policy.BuyStepPercentage, a.Policy.AnnualReturnRate, currentPrice, a.Now())
}

// CalculateAll computes targets for every persisted trade, keyed by trade id.
// Trades without an id cannot be keyed and are skipped.
func (a *Analyzer) CalculateAll(trades []*model.Trade, prices map[string]float64) map[int64]model.PriceCalculation {
	results := make(map[int64]model.PriceCalculation, len(trades))
	for _, trade := range trades {
		if trade.ID == 0 {
			continue
		}
		results[trade.ID] = a.CalculateTargets(trade, priceFor(prices, trade.StockCode))
	}
	return results
}

// Analyze folds all trades into the portfolio overview and per-stock
// summaries. A trade whose stock has no entry in prices contributes its cost
// basis as its own current value. Unsaved trades (id zero) count toward
// TotalTrades only; they are excluded from aggregates and summaries.
func (a *Analyzer) Analyze(trades []*model.Trade, prices map[string]float64) *model.PortfolioAnalysis {
	calculations := a.CalculateAll(trades, prices)

	overview := model.Overview{TotalTrades: len(trades)}
	summaries := make(map[string]*model.StockSummary)
	var order []string

	for _, trade := range trades {
		if trade.ID == 0 {
			continue
		}
		calc := calculations[trade.ID]

		investment := trade.Investment()
		currentValue := investment
		currentPrice, hasPrice := prices[trade.StockCode]
		if hasPrice {
			currentValue = currentPrice * float64(trade.Quantity)
		}

		overview.TotalInvestment += investment
		overview.TotalCurrentValue += currentValue
		overview.TotalUnrealizedGain += currentValue - investment

		switch calc.PriceReached {
		case model.SignalSell:
			overview.SellSignals++
		case model.SignalBuy:
			overview.BuySignals++
		}

		stock, ok := summaries[trade.StockCode]
		if !ok {
			stock = &model.StockSummary{Code: trade.StockCode, Name: trade.StockName}
			if hasPrice {
				p := currentPrice
				stock.CurrentPrice = &p
			}
			summaries[trade.StockCode] = stock
			order = append(order, trade.StockCode)
		}

		// Running weighted average. Equivalent to total cost over total
		// quantity, so the result is independent of fold order.
		prevCost := stock.AveragePrice * float64(stock.TotalQuantity)
		stock.TotalQuantity += trade.Quantity
		stock.AveragePrice = (prevCost + investment) / float64(stock.TotalQuantity)
		stock.TotalValue += currentValue
		stock.UnrealizedGain += currentValue - investment

		// Recomputed in full on every fold rather than updated incrementally,
		// so rounding error does not compound.
		costBasis := stock.AveragePrice * float64(stock.TotalQuantity)
		if costBasis > 0 {
			stock.UnrealizedGainPercent = (stock.TotalValue - costBasis) / costBasis * 100
		} else {
			stock.UnrealizedGainPercent = 0
		}

		switch calc.PriceReached {
		case model.SignalSell:
			stock.Signals = append(stock.Signals, model.SignalEntry{
				Type:        model.SignalSell,
				TradeID:     trade.ID,
				TargetPrice: calc.SellTargetPrice,
			})
		case model.SignalBuy:
			stock.Signals = append(stock.Signals, model.SignalEntry{
				Type:        model.SignalBuy,
				TradeID:     trade.ID,
				TargetPrice: calc.BuyTargetPrice,
			})
		}
	}

	overview.TotalStocks = len(summaries)
	if overview.TotalInvestment > 0 {
		overview.TotalUnrealizedGainPercent = overview.TotalUnrealizedGain / overview.TotalInvestment * 100
	}

	stocks := make([]model.StockSummary, 0, len(order))
	for _, code := range order {
		stocks = append(stocks, *summaries[code])
	}

	return &model.PortfolioAnalysis{
		Overview:     overview,
		Stocks:       stocks,
		Calculations: calculations,
	}
}

func priceFor(prices map[string]float64, code string) *float64 {
	if p, ok := prices[code]; ok {
		return &p
	}
	return nil
}
