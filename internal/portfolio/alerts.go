package portfolio

import (
	"fmt"

	"StockTrader/internal/model"
)

// AlertTrades returns every trade whose current price has reached a target,
// in input order. No urgency sort is applied.
func (a *Analyzer) AlertTrades(trades []*model.Trade, prices map[string]float64) []model.Alert {
	calculations := a.CalculateAll(trades, prices)

	var alerts []model.Alert
	for _, trade := range trades {
		if trade.ID == 0 {
			continue
		}
		calc := calculations[trade.ID]

		switch calc.PriceReached {
		case model.SignalSell:
			alerts = append(alerts, model.Alert{
				Trade:       trade,
				Calculation: calc,
				Type:        model.SignalSell,
				Message: fmt.Sprintf("%s(%s) 已达到卖出目标价格 ¥%.2f",
					trade.StockName, trade.StockCode, calc.SellTargetPrice),
			})
		case model.SignalBuy:
			alerts = append(alerts, model.Alert{
				Trade:       trade,
				Calculation: calc,
				Type:        model.SignalBuy,
				Message: fmt.Sprintf("%s(%s) 已达到买入目标价格 ¥%.2f",
					trade.StockName, trade.StockCode, calc.BuyTargetPrice),
			})
		}
	}
	return alerts
}
