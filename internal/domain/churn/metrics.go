package churn

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vidinfra/churnalytics/internal/types"
)

// MetricPoint is one daily or monthly bucket in the output series
type MetricPoint struct {
	Date               time.Time
	ChurnRatePercent   float64
	ChurnedSubscribers int64
	ChurnedMRRCents    int64
}

// Totals aggregates a sub-range of the series
type Totals struct {
	ChurnRatePercent   float64
	ChurnedSubscribers int64
	ChurnedMRRCents    int64
}

// Result is the full metrics computation for a request
type Result struct {
	StartDate time.Time
	EndDate   time.Time

	AggregateBy types.AggregationMode

	Totals                     Totals
	LastPeriodChurnRatePercent float64

	Points []MetricPoint
}

// ChurnRatePercent computes churned / (base + new) as a percentage rounded
// half up to 2 decimals. A non-positive denominator yields exactly 0.0, so
// days without any subscriber base never report churn.
func ChurnRatePercent(churned, base, newSubscribers int64) float64 {
	denom := base + newSubscribers
	if denom <= 0 {
		return 0.0
	}
	return decimal.NewFromInt(churned).
		Div(decimal.NewFromInt(denom)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// TotalsForRange aggregates the inclusive range [from, to]: the base is the
// active count at the instant before from, new and churned are summed over
// the range, and the rate follows ChurnRatePercent.
func (s *DailySeries) TotalsForRange(from, to time.Time) Totals {
	churned := s.ChurnedByDay.SumRange(from, to)
	mrr := s.ChurnedMRRByDay.SumRange(from, to)
	newInRange := s.NewByDay.SumRange(from, to)
	base := s.ActiveAtStartOf(from)

	return Totals{
		ChurnRatePercent:   ChurnRatePercent(churned, base, newInRange),
		ChurnedSubscribers: churned,
		ChurnedMRRCents:    mrr,
	}
}

// RollingChurnRate computes the trailing-window churn rate for a single
// day: the window is the ChurnWindowDays days ending on the day itself.
func (s *DailySeries) RollingChurnRate(day time.Time) float64 {
	windowStart := types.AddDays(day, -(types.ChurnWindowDays - 1))
	base := s.ActiveAtStartOf(windowStart)
	newInWindow := s.NewByDay.SumRange(windowStart, day)
	churnedInWindow := s.ChurnedByDay.SumRange(windowStart, day)
	return ChurnRatePercent(churnedInWindow, base, newInWindow)
}

// LastPeriodRate computes the churn rate of the period of equal length
// immediately preceding [start, end]. Ranges too early to have a
// predecessor report 0.0.
func (s *DailySeries) LastPeriodRate(start, end time.Time) float64 {
	days := types.DaysBetweenInclusive(start, end)
	lastEnd := types.AddDays(start, -1)
	lastStart := types.AddDays(lastEnd, -(days - 1))
	if lastStart.After(lastEnd) {
		return 0.0
	}
	return s.TotalsForRange(lastStart, lastEnd).ChurnRatePercent
}

// ComputeMetrics runs the metrics engine over a built series: per-bucket
// points in the requested aggregation mode, range totals, and the
// previous-period comparison.
func ComputeMetrics(s *DailySeries, start, end time.Time, mode types.AggregationMode) *Result {
	start, end = types.ToDate(start), types.ToDate(end)

	var points []MetricPoint
	if mode == types.AggregateByMonth {
		points = monthlyPoints(s, start, end)
	} else {
		points = dailyPoints(s, start, end)
	}

	return &Result{
		StartDate:                  start,
		EndDate:                    end,
		AggregateBy:                mode,
		Totals:                     s.TotalsForRange(start, end),
		LastPeriodChurnRatePercent: s.LastPeriodRate(start, end),
		Points:                     points,
	}
}

// dailyPoints emits one point per day, each over its own trailing window.
func dailyPoints(s *DailySeries, start, end time.Time) []MetricPoint {
	points := make([]MetricPoint, 0, types.DaysBetweenInclusive(start, end))
	for day := start; !day.After(end); day = types.AddDays(day, 1) {
		windowStart := types.AddDays(day, -(types.ChurnWindowDays - 1))
		points = append(points, MetricPoint{
			Date:               day,
			ChurnRatePercent:   s.RollingChurnRate(day),
			ChurnedSubscribers: s.ChurnedByDay.SumRange(windowStart, day),
			ChurnedMRRCents:    s.ChurnedMRRByDay.SumRange(windowStart, day),
		})
	}
	return points
}

// monthlyPoints emits one point per calendar month intersecting the range,
// clipped to the range at both ends. Monthly buckets use period-to-date
// totals, not trailing windows, so the base is the active count at the
// clipped period start.
func monthlyPoints(s *DailySeries, start, end time.Time) []MetricPoint {
	var points []MetricPoint
	lastMonthStart := types.MonthStart(end)
	for cursor := types.MonthStart(start); !cursor.After(lastMonthStart); cursor = types.NextMonth(cursor) {
		periodStart := types.MaxDate(cursor, start)
		periodEnd := types.MinDate(types.MonthEnd(cursor), end)
		totals := s.TotalsForRange(periodStart, periodEnd)
		points = append(points, MetricPoint{
			Date:               cursor,
			ChurnRatePercent:   totals.ChurnRatePercent,
			ChurnedSubscribers: totals.ChurnedSubscribers,
			ChurnedMRRCents:    totals.ChurnedMRRCents,
		})
	}
	return points
}
