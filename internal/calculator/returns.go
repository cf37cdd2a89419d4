package calculator

// ReturnRate is the simple return of currentPrice against buyPrice,
// e.g. 0.15 for +15%.
func ReturnRate(buyPrice, currentPrice float64) float64 {
	return (currentPrice - buyPrice) / buyPrice
}

// ProfitAmount is the unrealized gain of a position in currency units.
func ProfitAmount(buyPrice, currentPrice float64, quantity int) float64 {
	return (currentPrice - buyPrice) * float64(quantity)
}

// AnnualizedReturn scales the simple return to a 365-day year. Returns 0 when
// daysHeld is not positive; that avoids a division by zero, it is not a
// meaningful economic answer.
func AnnualizedReturn(buyPrice, currentPrice float64, daysHeld int) float64 {
	if daysHeld <= 0 {
		return 0
	}
	return ReturnRate(buyPrice, currentPrice) * 365 / float64(daysHeld)
}

// ValidateParameters checks the two policy numbers, returning human-readable
// violations. The calculation functions do not enforce these bounds
// themselves; validation is an opt-in step for callers.
func ValidateParameters(buyStepPercentage, annualReturnRate float64) (bool, []string) {
	var errs []string
	if buyStepPercentage < 0 || buyStepPercentage > 1 {
		errs = append(errs, "买入台阶百分比必须在 0% 到 100% 之间")
	}
	if annualReturnRate < 0 || annualReturnRate > 10 {
		errs = append(errs, "年化收益率必须在 0% 到 1000% 之间")
	}
	return len(errs) == 0, errs
}
