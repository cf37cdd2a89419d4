package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"StockTrader/internal/calculator"
	"StockTrader/internal/model"
)

// FormatAlerts formats a batch of target alerts into one Telegram message.
func FormatAlerts(alerts []model.Alert) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔔 <b>价格提醒</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	for _, alert := range alerts {
		icon := "📈"
		if alert.Type == model.SignalBuy {
			icon = "📉"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", icon, alert.Message))
		if alert.Calculation.CurrentPrice != nil {
			b.WriteString(fmt.Sprintf("   当前价格 ¥%.2f | 持有 %d 天\n",
				*alert.Calculation.CurrentPrice, alert.Calculation.DaysSincePurchase))
		}
	}
	return b.String()
}

// FormatPortfolioReport formats a full analysis into a Telegram message.
func FormatPortfolioReport(analysis *model.PortfolioAnalysis) string {
	var b strings.Builder
	ov := analysis.Overview

	b.WriteString(fmt.Sprintf("📊 <b>持仓分析</b> | %s\n\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("总投入: ¥%s\n", humanize.CommafWithDigits(ov.TotalInvestment, 2)))
	b.WriteString(fmt.Sprintf("总市值: ¥%s\n", humanize.CommafWithDigits(ov.TotalCurrentValue, 2)))
	b.WriteString(fmt.Sprintf("浮动盈亏: ¥%s (%+.2f%%)\n",
		humanize.CommafWithDigits(ov.TotalUnrealizedGain, 2), ov.TotalUnrealizedGainPercent))
	b.WriteString(fmt.Sprintf("交易笔数: %d | 持仓股票: %d\n", ov.TotalTrades, ov.TotalStocks))
	b.WriteString(fmt.Sprintf("卖出信号: %d | 买入信号: %d\n", ov.SellSignals, ov.BuySignals))

	if len(analysis.Stocks) > 0 {
		b.WriteString("\n📋 <b>个股明细:</b>\n")
	}
	for _, stock := range analysis.Stocks {
		b.WriteString(fmt.Sprintf("  %s(%s): %s股 成本¥%.2f 盈亏%+.2f%%\n",
			stock.Name, stock.Code,
			humanize.Comma(int64(stock.TotalQuantity)),
			stock.AveragePrice, stock.UnrealizedGainPercent))
		for _, sig := range stock.Signals {
			label := "卖出"
			if sig.Type == model.SignalBuy {
				label = "买入"
			}
			b.WriteString(fmt.Sprintf("    ⚡ %s信号 目标价 ¥%.2f (交易 #%d)\n", label, sig.TargetPrice, sig.TradeID))
		}
	}
	return b.String()
}

// FormatPolicy formats the current calculation parameters, flagging values
// outside the validated ranges.
func FormatPolicy(policy model.Policy) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>计算参数</b>\n\n")
	b.WriteString(fmt.Sprintf("买入台阶: %.1f%%\n", policy.BuyStepPercentage*100))
	b.WriteString(fmt.Sprintf("年化收益率: %.1f%%\n", policy.AnnualReturnRate*100))

	if ok, errs := calculator.ValidateParameters(policy.BuyStepPercentage, policy.AnnualReturnRate); !ok {
		b.WriteString("\n⚠️ 参数异常:\n")
		for _, msg := range errs {
			b.WriteString(fmt.Sprintf("  • %s\n", msg))
		}
	}
	return b.String()
}
