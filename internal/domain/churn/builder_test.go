package churn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	"github.com/vidinfra/churnalytics/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeEvent(id string, created time.Time) *subscription.Event {
	return &subscription.Event{
		ID:            id,
		TenantID:      "tenant-1",
		CreatedAt:     created,
		PriceCents:    1000,
		BillingPeriod: types.BILLING_PERIOD_MONTHLY,
	}
}

func churnedEvent(id string, created, deactivated time.Time, priceCents int64, period types.BillingPeriod) *subscription.Event {
	return &subscription.Event{
		ID:            id,
		TenantID:      "tenant-1",
		CreatedAt:     created,
		DeactivatedAt: &deactivated,
		PriceCents:    priceCents,
		BillingPeriod: period,
	}
}

func TestBuildDailySeries(t *testing.T) {
	since := date(2025, time.June, 1)
	to := date(2025, time.June, 30)

	events := []*subscription.Event{
		activeEvent("sub-1", date(2025, time.June, 10)),
		activeEvent("sub-2", date(2025, time.June, 10)),
		churnedEvent("sub-3", date(2025, time.April, 1), date(2025, time.June, 15), 1200, types.BILLING_PERIOD_ANNUAL),
	}

	s := BuildDailySeries(BuildParams{
		Since:      since,
		To:         to,
		RangeEnd:   to,
		BaseActive: 100,
		Events:     events,
	})

	assert.Equal(t, int64(100), s.BaseActiveAtSince)
	assert.Equal(t, int64(2), s.NewByDay.Get(date(2025, time.June, 10)))
	assert.Equal(t, int64(1), s.ChurnedByDay.Get(date(2025, time.June, 15)))
	assert.Equal(t, int64(100), s.ChurnedMRRByDay.Get(date(2025, time.June, 15)))

	// sparse maps only carry days with events
	assert.Len(t, s.NewByDay, 1)
	assert.Len(t, s.ChurnedByDay, 1)

	// forward integration from the base snapshot
	assert.Equal(t, int64(100), s.ActiveByDay.Get(date(2025, time.June, 9)))
	assert.Equal(t, int64(102), s.ActiveByDay.Get(date(2025, time.June, 10)))
	assert.Equal(t, int64(101), s.ActiveByDay.Get(date(2025, time.June, 15)))
	assert.Equal(t, int64(101), s.ActiveByDay.Get(to))
}

func TestBuildDailySeriesConservation(t *testing.T) {
	since := date(2025, time.May, 1)
	to := date(2025, time.June, 30)

	events := []*subscription.Event{
		activeEvent("sub-1", date(2025, time.May, 3)),
		activeEvent("sub-2", date(2025, time.May, 20)),
		activeEvent("sub-3", date(2025, time.June, 2)),
		churnedEvent("sub-4", date(2025, time.March, 1), date(2025, time.May, 10), 300, types.BILLING_PERIOD_QUARTERLY),
		churnedEvent("sub-5", date(2025, time.May, 3), date(2025, time.June, 20), 1000, types.BILLING_PERIOD_MONTHLY),
	}

	s := BuildDailySeries(BuildParams{
		Since:      since,
		To:         to,
		RangeEnd:   to,
		BaseActive: 50,
		Events:     events,
	})

	for day := since; !day.After(to); day = types.AddDays(day, 1) {
		expected := s.ActiveAtStartOf(day) + s.NewByDay.Get(day) - s.ChurnedByDay.Get(day)
		assert.Equal(t, expected, s.ActiveByDay.Get(day), "active count on %s", types.FormatDate(day))
	}
	assert.Equal(t, int64(50), s.ActiveAtStartOf(since))
}

func TestBuildDailySeriesExclusions(t *testing.T) {
	since := date(2025, time.June, 1)
	to := date(2025, time.June, 30)
	rangeEnd := date(2025, time.June, 20)

	events := []*subscription.Event{
		// deactivated before the series starts
		churnedEvent("sub-1", date(2025, time.April, 1), date(2025, time.May, 20), 1000, types.BILLING_PERIOD_MONTHLY),
		// deactivated after the series ends
		churnedEvent("sub-2", date(2025, time.April, 1), date(2025, time.July, 5), 1000, types.BILLING_PERIOD_MONTHLY),
		// created after the requested end date: counts as new, never as churned
		churnedEvent("sub-3", date(2025, time.June, 25), date(2025, time.June, 26), 1000, types.BILLING_PERIOD_MONTHLY),
	}

	s := BuildDailySeries(BuildParams{
		Since:      since,
		To:         to,
		RangeEnd:   rangeEnd,
		BaseActive: 10,
		Events:     events,
	})

	assert.Empty(t, s.ChurnedByDay)
	assert.Empty(t, s.ChurnedMRRByDay)
	assert.Equal(t, int64(1), s.NewByDay.Get(date(2025, time.June, 25)))
}

func TestActiveAtStartOf(t *testing.T) {
	since := date(2025, time.June, 1)
	to := date(2025, time.June, 10)

	s := BuildDailySeries(BuildParams{
		Since:      since,
		To:         to,
		RangeEnd:   to,
		BaseActive: 7,
	})

	// days at or left of the series start fall back to the base snapshot
	assert.Equal(t, int64(7), s.ActiveAtStartOf(since))
	assert.Equal(t, int64(7), s.ActiveAtStartOf(date(2025, time.May, 1)))

	// days inside the series read the previous day's running count
	assert.Equal(t, int64(7), s.ActiveAtStartOf(date(2025, time.June, 5)))

	// days right of the series read zero
	assert.Equal(t, int64(0), s.ActiveAtStartOf(date(2025, time.June, 12)))
}
