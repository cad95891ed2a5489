package subscription

import (
	"context"
	"time"
)

// Filter scopes a raw event query to one tenant and optionally to a set of
// products. An empty ProductIDs slice means no filter (all products).
type Filter struct {
	TenantID   string
	ProductIDs []string
}

// EventQuery bounds a raw event fetch. The churn series builder asks for
// every event that could matter to a lookback window: anything created up
// to CreatedThrough that is still active or deactivated no earlier than
// DeactivatedOnOrAfter.
type EventQuery struct {
	Filter

	// CreatedThrough includes only events created on or before this day
	CreatedThrough time.Time

	// DeactivatedOnOrAfter excludes events whose deactivation precedes this
	// day; events that never deactivated always pass
	DeactivatedOnOrAfter time.Time
}

// Repository is the raw subscription event store consumed by the churn
// engine. It is queried once per series cache miss; retry and timeout
// policy belong to the implementation, not to the engine.
type Repository interface {
	// CountActiveBefore returns the number of subscriptions created strictly
	// before date that were still active at that instant (no deactivation,
	// or deactivation on or after date).
	CountActiveBefore(ctx context.Context, f *Filter, date time.Time) (int64, error)

	// ListEvents returns the subscription events matching the query.
	ListEvents(ctx context.Context, q *EventQuery) ([]*Event, error)
}
