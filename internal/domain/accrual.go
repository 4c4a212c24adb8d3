package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccruedProfit computes time-proportional profit on a stock purchase since
// its last claim: amount_usd * rate_per_hour * hours_elapsed. Negative
// elapsed time (clock skew) accrues nothing.
func AccruedProfit(p StockPurchase, ratePerHour decimal.Decimal, now time.Time) decimal.Decimal {
	elapsed := now.Sub(p.LastProfitClaimAt)
	if elapsed <= 0 {
		return decimal.Zero
	}
	hours := decimal.NewFromFloat(elapsed.Hours())
	return p.AmountUSD.Mul(ratePerHour).Mul(hours)
}
