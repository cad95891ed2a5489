package churn

import (
	"encoding/json"
	"time"

	"github.com/vidinfra/churnalytics/internal/types"
)

// DayCounts is a sparse mapping from calendar date to a count or amount.
// An absent key means a known zero for that day; keys are only present for
// days with non-zero events. Dates are UTC midnight (types.ToDate).
type DayCounts map[time.Time]int64

// Get returns the value for a day, zero when absent
func (d DayCounts) Get(day time.Time) int64 {
	return d[day]
}

// Add increments the value for a day
func (d DayCounts) Add(day time.Time, n int64) {
	d[day] += n
}

// SumRange sums the values over the inclusive range [from, to].
// Days without a key contribute zero.
func (d DayCounts) SumRange(from, to time.Time) int64 {
	var sum int64
	for day := from; !day.After(to); day = types.AddDays(day, 1) {
		sum += d[day]
	}
	return sum
}

// MarshalJSON renders the map with yyyy-mm-dd keys so a series can live in
// a string keyed cache like redis
func (d DayCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int64, len(d))
	for day, v := range d {
		out[types.FormatDate(day)] = v
	}
	return json.Marshal(out)
}

func (d *DayCounts) UnmarshalJSON(b []byte) error {
	var raw map[string]int64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(DayCounts, len(raw))
	for s, v := range raw {
		day, err := types.ParseDate(s)
		if err != nil {
			return err
		}
		out[day] = v
	}
	*d = out
	return nil
}

// DailySeries is the memoized per-day view of a tenant's subscription
// activity over [Since, To]. It is built once, cached, and never mutated
// afterwards, so it is safe to share across concurrent readers.
//
// Invariant: for every day d in [Since, To],
// ActiveByDay[d] = ActiveByDay[d-1] + NewByDay[d] - ChurnedByDay[d],
// with ActiveByDay[Since-1] read as BaseActiveAtSince.
type DailySeries struct {
	// Since and To are the inclusive date bounds actually computed
	Since time.Time `json:"since"`
	To    time.Time `json:"to"`

	// BaseActiveAtSince counts subscriptions active strictly before Since
	BaseActiveAtSince int64 `json:"base_active_at_since"`

	NewByDay        DayCounts `json:"new_by_day"`
	ChurnedByDay    DayCounts `json:"churned_by_day"`
	ChurnedMRRByDay DayCounts `json:"churned_mrr_by_day"`

	// ActiveByDay is dense over [Since, To], derived by forward integration
	// from BaseActiveAtSince
	ActiveByDay DayCounts `json:"active_by_day"`
}

// ActiveAtStartOf returns the active subscriber count at the instant before
// day begins. Days left of the series fall back to the base snapshot; days
// right of the computed range read as zero.
func (s *DailySeries) ActiveAtStartOf(day time.Time) int64 {
	prev := types.AddDays(day, -1)
	if prev.Before(s.Since) {
		return s.BaseActiveAtSince
	}
	return s.ActiveByDay.Get(prev)
}
