package clickhouse

import (
	"context"
	"time"

	"github.com/vidinfra/churnalytics/internal/clickhouse"
	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	ierr "github.com/vidinfra/churnalytics/internal/errors"
	"github.com/vidinfra/churnalytics/internal/logger"
	"github.com/vidinfra/churnalytics/internal/types"
)

// SubscriptionEventRepository serves the churn engine's raw event queries
// from ClickHouse. Table layout:
// - PRIMARY KEY: (tenant_id, created_at)
// - ORDER BY: (tenant_id, created_at, id)
// - ENGINE: ReplacingMergeTree
type SubscriptionEventRepository struct {
	store  *clickhouse.ClickHouseStore
	logger *logger.Logger
}

func NewSubscriptionEventRepository(store *clickhouse.ClickHouseStore, logger *logger.Logger) subscription.Repository {
	return &SubscriptionEventRepository{store: store, logger: logger}
}

// CountActiveBefore counts subscriptions created strictly before date that
// were still active at that instant.
func (r *SubscriptionEventRepository) CountActiveBefore(ctx context.Context, f *subscription.Filter, date time.Time) (int64, error) {
	span := StartRepositorySpan(ctx, "subscription_event", "count_active_before", map[string]interface{}{
		"tenant_id": f.TenantID,
		"date":      types.FormatDate(date),
	})
	defer FinishSpan(span)

	query := `
		SELECT count()
		FROM subscription_events
		WHERE tenant_id = ?
		AND created_at < ?
		AND (deactivated_at IS NULL OR deactivated_at >= ?)
	`
	args := []interface{}{f.TenantID, date, date}

	if len(f.ProductIDs) > 0 {
		query += " AND product_id IN (?)"
		args = append(args, f.ProductIDs)
	}

	var count uint64
	if err := r.store.GetConn().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		SetSpanError(span, err)
		return 0, ierr.WithError(err).
			WithHint("Failed to count active subscriptions").
			Mark(ierr.ErrDatabase)
	}

	return int64(count), nil
}

// ListEvents returns the subscription events matching the query, following
// the primary key order for index usage.
func (r *SubscriptionEventRepository) ListEvents(ctx context.Context, q *subscription.EventQuery) ([]*subscription.Event, error) {
	span := StartRepositorySpan(ctx, "subscription_event", "list_events", map[string]interface{}{
		"tenant_id":       q.TenantID,
		"created_through": types.FormatDate(q.CreatedThrough),
	})
	defer FinishSpan(span)

	query := `
		SELECT id, tenant_id, product_id, created_at, deactivated_at, price_cents, billing_period
		FROM subscription_events
		WHERE tenant_id = ?
		AND created_at <= ?
		AND (deactivated_at IS NULL OR deactivated_at >= ?)
	`
	args := []interface{}{q.TenantID, q.CreatedThrough, q.DeactivatedOnOrAfter}

	if len(q.ProductIDs) > 0 {
		query += " AND product_id IN (?)"
		args = append(args, q.ProductIDs)
	}

	query += " ORDER BY created_at, id"

	rows, err := r.store.GetConn().Query(ctx, query, args...)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to query subscription events").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var events []*subscription.Event
	for rows.Next() {
		var (
			event         subscription.Event
			createdAt     time.Time
			deactivatedAt *time.Time
			billingPeriod string
		)
		if err := rows.Scan(
			&event.ID,
			&event.TenantID,
			&event.ProductID,
			&createdAt,
			&deactivatedAt,
			&event.PriceCents,
			&billingPeriod,
		); err != nil {
			SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to scan subscription event").
				Mark(ierr.ErrDatabase)
		}

		event.CreatedAt = types.ToDate(createdAt)
		if deactivatedAt != nil {
			d := types.ToDate(*deactivatedAt)
			event.DeactivatedAt = &d
		}
		event.BillingPeriod = types.BillingPeriod(billingPeriod)

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to read subscription events").
			Mark(ierr.ErrDatabase)
	}

	return events, nil
}
