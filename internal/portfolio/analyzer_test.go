package portfolio

import (
	"math"
	"testing"
	"time"

	"StockTrader/internal/model"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(step, rate float64) *Analyzer {
	a := NewAnalyzer(model.Policy{BuyStepPercentage: step, AnnualReturnRate: rate})
	a.Now = func() time.Time { return testNow }
	return a
}

func makeTrade(id int64, code, name string, buyPrice float64, qty, daysAgo int) *model.Trade {
	return &model.Trade{
		ID:        id,
		StockCode: code,
		StockName: name,
		BuyPrice:  buyPrice,
		BuyTime:   testNow.AddDate(0, 0, -daysAgo),
		Quantity:  qty,
	}
}

func TestAnalyze_EmptyPortfolio(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	analysis := a.Analyze(nil, map[string]float64{})

	ov := analysis.Overview
	if ov.TotalInvestment != 0 || ov.TotalCurrentValue != 0 || ov.TotalUnrealizedGain != 0 {
		t.Errorf("empty portfolio totals should be zero, got %+v", ov)
	}
	if ov.TotalUnrealizedGainPercent != 0 {
		t.Errorf("gain percent = %.4f, want 0 (no NaN/Inf on empty input)", ov.TotalUnrealizedGainPercent)
	}
	if math.IsNaN(ov.TotalUnrealizedGainPercent) || math.IsInf(ov.TotalUnrealizedGainPercent, 0) {
		t.Error("gain percent must be finite for an empty portfolio")
	}
	if len(analysis.Stocks) != 0 || len(analysis.Calculations) != 0 {
		t.Errorf("expected no stocks or calculations, got %d/%d", len(analysis.Stocks), len(analysis.Calculations))
	}
}

func TestAnalyze_WeightedAverageOrderIndependent(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	t1 := makeTrade(1, "600036", "招商银行", 10, 100, 60)
	t2 := makeTrade(2, "600036", "招商银行", 20, 100, 40)

	for _, trades := range [][]*model.Trade{{t1, t2}, {t2, t1}} {
		analysis := a.Analyze(trades, nil)
		if len(analysis.Stocks) != 1 {
			t.Fatalf("expected 1 stock summary, got %d", len(analysis.Stocks))
		}
		stock := analysis.Stocks[0]
		if stock.TotalQuantity != 200 {
			t.Errorf("TotalQuantity = %d, want 200", stock.TotalQuantity)
		}
		if math.Abs(stock.AveragePrice-15) > 1e-9 {
			t.Errorf("AveragePrice = %.6f, want 15 regardless of fold order", stock.AveragePrice)
		}
	}
}

func TestAnalyze_MissingPriceUsesCostBasis(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	trades := []*model.Trade{makeTrade(1, "000001", "平安银行", 12, 100, 45)}

	analysis := a.Analyze(trades, map[string]float64{})
	ov := analysis.Overview
	if ov.TotalInvestment != 1200 {
		t.Errorf("TotalInvestment = %.2f, want 1200", ov.TotalInvestment)
	}
	if ov.TotalCurrentValue != 1200 {
		t.Errorf("TotalCurrentValue = %.2f, want cost basis 1200 when price unknown", ov.TotalCurrentValue)
	}
	if ov.TotalUnrealizedGain != 0 {
		t.Errorf("TotalUnrealizedGain = %.2f, want 0", ov.TotalUnrealizedGain)
	}
	if calc := analysis.Calculations[1]; calc.PriceReached != model.SignalNone {
		t.Errorf("PriceReached = %q, want none without a price", calc.PriceReached)
	}
	if analysis.Stocks[0].CurrentPrice != nil {
		t.Error("stock summary CurrentPrice should be nil when unknown")
	}
}

func TestAnalyze_SignalsAndOverview(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	trades := []*model.Trade{
		// Sell target 10.1667; price 10.50 reaches it.
		makeTrade(1, "600036", "招商银行", 10, 100, 30),
		// Sell target 102.78 at 50 days, buy target 97.64; price 95 is below it.
		makeTrade(2, "000858", "五粮液", 100, 10, 50),
	}
	prices := map[string]float64{"600036": 10.50, "000858": 95}

	analysis := a.Analyze(trades, prices)
	ov := analysis.Overview

	if ov.SellSignals != 1 || ov.BuySignals != 1 {
		t.Errorf("signals = %d sell / %d buy, want 1/1", ov.SellSignals, ov.BuySignals)
	}
	if ov.TotalTrades != 2 || ov.TotalStocks != 2 {
		t.Errorf("counts = %d trades / %d stocks, want 2/2", ov.TotalTrades, ov.TotalStocks)
	}

	wantInvestment := 10*100.0 + 100*10.0
	if math.Abs(ov.TotalInvestment-wantInvestment) > 1e-9 {
		t.Errorf("TotalInvestment = %.2f, want %.2f", ov.TotalInvestment, wantInvestment)
	}
	wantValue := 10.50*100 + 95*10.0
	if math.Abs(ov.TotalCurrentValue-wantValue) > 1e-9 {
		t.Errorf("TotalCurrentValue = %.2f, want %.2f", ov.TotalCurrentValue, wantValue)
	}
	wantPercent := (wantValue - wantInvestment) / wantInvestment * 100
	if math.Abs(ov.TotalUnrealizedGainPercent-wantPercent) > 1e-9 {
		t.Errorf("gain percent = %.4f, want %.4f", ov.TotalUnrealizedGainPercent, wantPercent)
	}

	// Per-stock signal entries carry the matching target price and trade id.
	sellStock := analysis.Stocks[0]
	if len(sellStock.Signals) != 1 {
		t.Fatalf("expected 1 signal on %s, got %d", sellStock.Code, len(sellStock.Signals))
	}
	sig := sellStock.Signals[0]
	if sig.Type != model.SignalSell || sig.TradeID != 1 {
		t.Errorf("signal = %+v, want sell for trade 1", sig)
	}
	if math.Abs(sig.TargetPrice-10.1667) > 0.0001 {
		t.Errorf("signal target = %.6f, want 10.1667±0.0001", sig.TargetPrice)
	}
}

func TestAnalyze_UnsavedTradesCountedButExcluded(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	saved := makeTrade(1, "600036", "招商银行", 10, 100, 30)
	unsaved := makeTrade(0, "600000", "浦发银行", 8, 50, 30)
	trades := []*model.Trade{saved, unsaved}

	analysis := a.Analyze(trades, map[string]float64{"600036": 10.50, "600000": 9})

	if analysis.Overview.TotalTrades != 2 {
		t.Errorf("TotalTrades = %d, want 2 (raw count includes unsaved)", analysis.Overview.TotalTrades)
	}
	if analysis.Overview.TotalInvestment != 1000 {
		t.Errorf("TotalInvestment = %.2f, want 1000 (unsaved trade excluded)", analysis.Overview.TotalInvestment)
	}
	if analysis.Overview.TotalStocks != 1 {
		t.Errorf("TotalStocks = %d, want 1", analysis.Overview.TotalStocks)
	}
	if len(analysis.Calculations) != 1 {
		t.Errorf("calculations = %d entries, want 1", len(analysis.Calculations))
	}
	if _, ok := analysis.Calculations[0]; ok {
		t.Error("calculation map must not contain a zero-id entry")
	}
}

func TestAnalyze_SummaryOrderFollowsFirstAppearance(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	trades := []*model.Trade{
		makeTrade(1, "600519", "贵州茅台", 1600, 1, 90),
		makeTrade(2, "000001", "平安银行", 12, 100, 60),
		makeTrade(3, "600519", "贵州茅台", 1700, 1, 30),
	}

	analysis := a.Analyze(trades, nil)
	if len(analysis.Stocks) != 2 {
		t.Fatalf("expected 2 stock summaries, got %d", len(analysis.Stocks))
	}
	if analysis.Stocks[0].Code != "600519" || analysis.Stocks[1].Code != "000001" {
		t.Errorf("summary order = [%s, %s], want first-appearance order", analysis.Stocks[0].Code, analysis.Stocks[1].Code)
	}
}

func TestAlertTrades(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	trades := []*model.Trade{
		makeTrade(1, "600036", "招商银行", 10, 100, 30),  // sell at 10.50
		makeTrade(2, "000001", "平安银行", 12, 100, 45),  // none at 12.10
		makeTrade(3, "000858", "五粮液", 100, 10, 50),   // buy at 95
	}
	prices := map[string]float64{"600036": 10.50, "000001": 12.10, "000858": 95}

	alerts := a.AlertTrades(trades, prices)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}

	// Input order preserved: trade 1 first, trade 3 second.
	if alerts[0].Trade.ID != 1 || alerts[0].Type != model.SignalSell {
		t.Errorf("first alert = trade %d %q, want trade 1 sell", alerts[0].Trade.ID, alerts[0].Type)
	}
	if alerts[1].Trade.ID != 3 || alerts[1].Type != model.SignalBuy {
		t.Errorf("second alert = trade %d %q, want trade 3 buy", alerts[1].Trade.ID, alerts[1].Type)
	}

	if want := "招商银行(600036) 已达到卖出目标价格 ¥10.17"; alerts[0].Message != want {
		t.Errorf("sell message = %q, want %q", alerts[0].Message, want)
	}
	if want := "五粮液(000858) 已达到买入目标价格 ¥97.64"; alerts[1].Message != want {
		t.Errorf("buy message = %q, want %q", alerts[1].Message, want)
	}
}

func TestAlertTrades_NoPriceNoAlert(t *testing.T) {
	a := newTestAnalyzer(0.05, 0.20)
	trades := []*model.Trade{makeTrade(1, "600036", "招商银行", 10, 100, 400)}

	if alerts := a.AlertTrades(trades, map[string]float64{}); len(alerts) != 0 {
		t.Errorf("expected no alerts without prices, got %d", len(alerts))
	}
}
