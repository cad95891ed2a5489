package types

import "github.com/shopspring/decimal"

// BillingPeriod is the recurrence of a subscription price
// ex MONTHLY, QUARTERLY, ANNUAL
type BillingPeriod string

const (
	BILLING_PERIOD_MONTHLY     BillingPeriod = "MONTHLY"
	BILLING_PERIOD_QUARTERLY   BillingPeriod = "QUARTERLY"
	BILLING_PERIOD_HALF_YEARLY BillingPeriod = "HALF_YEARLY"
	BILLING_PERIOD_ANNUAL      BillingPeriod = "ANNUAL"
	BILLING_PERIOD_TWO_YEARLY  BillingPeriod = "EVERY_TWO_YEARS"
)

// monthsPerPeriod maps a billing period to the number of months it covers
var monthsPerPeriod = map[BillingPeriod]int64{
	BILLING_PERIOD_MONTHLY:     1,
	BILLING_PERIOD_QUARTERLY:   3,
	BILLING_PERIOD_HALF_YEARLY: 6,
	BILLING_PERIOD_ANNUAL:      12,
	BILLING_PERIOD_TWO_YEARLY:  24,
}

// Validate returns true when the billing period is a supported recurrence
func (p BillingPeriod) Validate() bool {
	_, ok := monthsPerPeriod[p]
	return ok
}

// MonthlyAmountCents normalizes a period price to its monthly equivalent,
// rounding half up to the nearest integer cent. Unknown recurrences yield 0
// so a malformed price record never fails a churn computation.
// ex an ANNUAL price of 1200 cents contributes 100 cents of MRR.
func MonthlyAmountCents(priceCents int64, period BillingPeriod) int64 {
	months, ok := monthsPerPeriod[period]
	if !ok {
		return 0
	}
	return decimal.NewFromInt(priceCents).
		Div(decimal.NewFromInt(months)).
		Round(0).
		IntPart()
}
