package subscription

import (
	"time"

	"github.com/vidinfra/churnalytics/internal/types"
)

// Event is one raw subscription instance as returned by the event store.
// Dates are calendar dates (UTC midnight); a subscription churns on the day
// it deactivates.
type Event struct {
	// ID is the unique identifier for the subscription instance
	ID string `json:"id" ch:"id"`

	// TenantID is the seller the subscription belongs to
	TenantID string `json:"tenant_id" ch:"tenant_id"`

	// ProductID is the external id of the subscribed product
	ProductID string `json:"product_id" ch:"product_id"`

	// CreatedAt is the day the subscription started
	CreatedAt time.Time `json:"created_at" ch:"created_at"`

	// DeactivatedAt is the day the subscription churned, nil while active
	DeactivatedAt *time.Time `json:"deactivated_at" ch:"deactivated_at"`

	// PriceCents is the last known price for one billing period, 0 if unknown
	PriceCents int64 `json:"price_cents" ch:"price_cents"`

	// BillingPeriod is the recurrence the price applies to
	BillingPeriod types.BillingPeriod `json:"billing_period" ch:"billing_period"`
}

// MonthlyRevenueCents normalizes the subscription price to a monthly
// equivalent regardless of its billing period. Unknown prices or
// recurrences contribute 0.
func (e *Event) MonthlyRevenueCents() int64 {
	return types.MonthlyAmountCents(e.PriceCents, e.BillingPeriod)
}

// ChurnedOn returns the deactivation date and whether the subscription
// has churned at all
func (e *Event) ChurnedOn() (time.Time, bool) {
	if e.DeactivatedAt == nil {
		return time.Time{}, false
	}
	return types.ToDate(*e.DeactivatedAt), true
}
