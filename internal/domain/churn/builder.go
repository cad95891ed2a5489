package churn

import (
	"time"

	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	"github.com/vidinfra/churnalytics/internal/types"
)

// BuildParams carries everything the series fold needs. Events are the raw
// subscription events created through RangeEnd (or To) with the guard band
// applied; BaseActive is the pre-window snapshot count.
type BuildParams struct {
	// Since and To are the series bounds to compute
	Since time.Time
	To    time.Time

	// RangeEnd is the requested end date; events created after it cannot
	// count as churned inside the range even if their deactivation falls
	// there (guards against records deactivated before creation)
	RangeEnd time.Time

	// BaseActive counts subscriptions active strictly before Since
	BaseActive int64

	Events []*subscription.Event
}

// BuildDailySeries folds raw subscription events into the per-day series
// described on DailySeries. The fold is pure and deterministic: the same
// params always produce the same series, which is what makes duplicate
// cache-miss rebuilds harmless.
func BuildDailySeries(p BuildParams) *DailySeries {
	since, to := types.ToDate(p.Since), types.ToDate(p.To)
	rangeEnd := types.ToDate(p.RangeEnd)

	// Churn events deactivated before this day belong to subscriptions
	// created too far in the past to matter for any window in range.
	earliest := types.AddDays(since, -(types.ChurnWindowDays - 1))

	s := &DailySeries{
		Since:             since,
		To:                to,
		BaseActiveAtSince: p.BaseActive,
		NewByDay:          make(DayCounts),
		ChurnedByDay:      make(DayCounts),
		ChurnedMRRByDay:   make(DayCounts),
		ActiveByDay:       make(DayCounts, types.DaysBetweenInclusive(since, to)),
	}

	for _, ev := range p.Events {
		created := types.ToDate(ev.CreatedAt)

		if !created.Before(since) && !created.After(to) {
			s.NewByDay.Add(created, 1)
		}

		churnedOn, churned := ev.ChurnedOn()
		if !churned {
			continue
		}
		if created.After(rangeEnd) {
			continue
		}
		if churnedOn.Before(earliest) || churnedOn.Before(since) || churnedOn.After(to) {
			continue
		}

		s.ChurnedByDay.Add(churnedOn, 1)
		s.ChurnedMRRByDay.Add(churnedOn, ev.MonthlyRevenueCents())
	}

	// Forward integrate the running active count from the base snapshot.
	running := p.BaseActive
	for day := since; !day.After(to); day = types.AddDays(day, 1) {
		running += s.NewByDay.Get(day)
		running -= s.ChurnedByDay.Get(day)
		s.ActiveByDay[day] = running
	}

	return s
}
