package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Growth multipliers for the six projected months. The second month is the
// current month and carries the totals unchanged.
var (
	revenueMultipliers = []string{"0.7", "1", "1.15", "1.3", "1.5", "1.8"}
	expenseMultipliers = []string{"0.8", "1", "1.05", "1.1", "1.2", "1.4"}
)

type ForecastMonth struct {
	Month    time.Month
	Label    string
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// Forecast projects revenue and expenses over six months starting with the
// month before now.
func Forecast(revenue, expenses decimal.Decimal, now time.Time) []ForecastMonth {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	out := make([]ForecastMonth, len(revenueMultipliers))
	for i := range revenueMultipliers {
		month := first.AddDate(0, i, 0).Month()
		r := revenue.Mul(decimal.RequireFromString(revenueMultipliers[i]))
		e := expenses.Mul(decimal.RequireFromString(expenseMultipliers[i]))
		out[i] = ForecastMonth{
			Month:    month,
			Label:    month.String()[:3],
			Revenue:  r,
			Expenses: e,
			Profit:   r.Sub(e),
		}
	}
	return out
}
