package types

import "time"

// AggregationMode controls how churn metric points are bucketed
type AggregationMode string

const (
	AggregateByDay   AggregationMode = "day"
	AggregateByMonth AggregationMode = "month"
)

// ParseAggregationMode normalizes external input to a supported mode.
// Unknown values fall back to daily aggregation rather than erroring,
// intentional leniency towards chart clients.
func ParseAggregationMode(s string) AggregationMode {
	if AggregationMode(s) == AggregateByMonth {
		return AggregateByMonth
	}
	return AggregateByDay
}

// AggregateOption describes one bucketing choice for chart UIs
type AggregateOption struct {
	Value      AggregationMode `json:"value"`
	Title      string          `json:"title"`
	DateFormat string          `json:"date_format"`
}

// AggregateOptions lists the supported bucketing modes in display order
func AggregateOptions() []AggregateOption {
	return []AggregateOption{
		{Value: AggregateByDay, Title: "Daily", DateFormat: "yyyy-MM-dd"},
		{Value: AggregateByMonth, Title: "Monthly", DateFormat: "yyyy-MM"},
	}
}

const (
	// ChurnWindowDays is the trailing window used for daily rolling churn
	// rates and the hard cap the engine places on a requested range
	ChurnWindowDays = 31

	// ChurnRequestMaxDays is the stricter cap enforced at request intake,
	// one layer above the engine
	ChurnRequestMaxDays = 30

	// ChurnSeriesMaxAgeDays bounds how far back a daily series is ever built
	ChurnSeriesMaxAgeDays = 180

	// ChurnSeriesTTL is how long a built daily series stays cached
	ChurnSeriesTTL = 24 * time.Hour
)
