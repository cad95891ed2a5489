package dto

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/vidinfra/churnalytics/internal/domain/churn"
	"github.com/vidinfra/churnalytics/internal/types"
	"github.com/vidinfra/churnalytics/internal/validator"
)

// GetChurnAnalyticsRequest is the wire request for churn analytics.
// TenantID is resolved from the request context when absent; an unknown
// aggregate_by silently becomes daily and an empty product filter means
// all products, both documented leniency rather than errors.
type GetChurnAnalyticsRequest struct {
	TenantID    string   `json:"tenant_id" form:"-"`
	StartDate   string   `json:"start_date" form:"start_date"`
	EndDate     string   `json:"end_date" form:"end_date"`
	AggregateBy string   `json:"aggregate_by" form:"aggregate_by"`
	ProductIDs  []string `json:"product_ids" form:"product_ids"`
}

// ChurnQuery is the decoded, normalized request the service consumes
type ChurnQuery struct {
	TenantID    string
	StartDate   time.Time
	EndDate     time.Time
	AggregateBy types.AggregationMode
	// ProductIDs is sorted and de-duplicated so it is stable in cache keys;
	// empty means no filter
	ProductIDs []string
}

// Decode parses and validates the request against the intake window cap,
// collecting every violation into a single validation failure.
func (r *GetChurnAnalyticsRequest) Decode(maxWindowDays int) (*ChurnQuery, error) {
	var reasons []string
	var startDate, endDate time.Time

	if r.StartDate != "" {
		parsed, err := types.ParseDate(r.StartDate)
		if err != nil {
			reasons = append(reasons, "start_date is not a valid date")
		} else {
			startDate = parsed
		}
	}
	if r.EndDate != "" {
		parsed, err := types.ParseDate(r.EndDate)
		if err != nil {
			reasons = append(reasons, "end_date is not a valid date")
		} else {
			endDate = parsed
		}
	}

	if len(reasons) > 0 {
		return nil, validator.NewDateRangeError(reasons)
	}

	if err := validator.ValidateDateRange(startDate, endDate, maxWindowDays); err != nil {
		return nil, err
	}

	return &ChurnQuery{
		TenantID:    r.TenantID,
		StartDate:   startDate,
		EndDate:     endDate,
		AggregateBy: types.ParseAggregationMode(r.AggregateBy),
		ProductIDs:  normalizeProductIDs(r.ProductIDs),
	}, nil
}

// normalizeProductIDs drops blanks, de-duplicates and sorts the filter.
// Nil means all products.
func normalizeProductIDs(ids []string) []string {
	ids = lo.Filter(ids, func(id string, _ int) bool { return id != "" })
	if len(ids) == 0 {
		return nil
	}
	ids = lo.Uniq(ids)
	sort.Strings(ids)
	return ids
}

// ChurnMetrics is the totals block of the response
type ChurnMetrics struct {
	CustomerChurnRate   float64 `json:"customer_churn_rate"`
	LastPeriodChurnRate float64 `json:"last_period_churn_rate"`
	ChurnedSubscribers  int64   `json:"churned_subscribers"`
	ChurnedMRRCents     int64   `json:"churned_mrr_cents"`
}

// ChurnDataPoint is one daily or monthly bucket in the response
type ChurnDataPoint struct {
	Date               string  `json:"date"`
	CustomerChurnRate  float64 `json:"customer_churn_rate"`
	ChurnedSubscribers int64   `json:"churned_subscribers"`
	ChurnedMRRCents    int64   `json:"churned_mrr_cents"`
}

// ChurnAnalyticsResponse is the wire response for churn analytics
type ChurnAnalyticsResponse struct {
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	AggregateBy types.AggregationMode `json:"aggregate_by"`
	Metrics     ChurnMetrics          `json:"metrics"`
	DailyData   []ChurnDataPoint      `json:"daily_data"`
}

// NewChurnAnalyticsResponse shapes an engine result into the response
// schema. Pure copying, no computation.
func NewChurnAnalyticsResponse(result *churn.Result) *ChurnAnalyticsResponse {
	points := make([]ChurnDataPoint, 0, len(result.Points))
	for _, p := range result.Points {
		points = append(points, ChurnDataPoint{
			Date:               types.FormatDate(p.Date),
			CustomerChurnRate:  p.ChurnRatePercent,
			ChurnedSubscribers: p.ChurnedSubscribers,
			ChurnedMRRCents:    p.ChurnedMRRCents,
		})
	}

	return &ChurnAnalyticsResponse{
		StartDate:   types.FormatDate(result.StartDate),
		EndDate:     types.FormatDate(result.EndDate),
		AggregateBy: result.AggregateBy,
		Metrics: ChurnMetrics{
			CustomerChurnRate:   result.Totals.ChurnRatePercent,
			LastPeriodChurnRate: result.LastPeriodChurnRatePercent,
			ChurnedSubscribers:  result.Totals.ChurnedSubscribers,
			ChurnedMRRCents:     result.Totals.ChurnedMRRCents,
		},
		DailyData: points,
	}
}

// ChurnOptionsResponse feeds chart UIs the supported bucketing modes
type ChurnOptionsResponse struct {
	AggregateOptions []types.AggregateOption `json:"aggregate_options"`
}
