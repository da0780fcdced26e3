package services

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// formatAmount renders minor units in major units with two decimals,
// so 150050 becomes "1500.50".
func formatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// progressPercent returns current as a percentage of target, rounded to two places.
func progressPercent(current, target int64) decimal.Decimal {
	if target <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(current).Mul(hundred).Div(decimal.NewFromInt(target)).Round(2)
}
