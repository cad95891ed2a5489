package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/vidinfra/churnalytics/internal/api/dto"
	"github.com/vidinfra/churnalytics/internal/cache"
	"github.com/vidinfra/churnalytics/internal/domain/churn"
	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	"github.com/vidinfra/churnalytics/internal/types"
	"github.com/vidinfra/churnalytics/internal/validator"
)

// ChurnService computes subscriber churn analytics for a tenant
type ChurnService interface {
	// GetChurnAnalytics validates the request, resolves the cached daily
	// series and runs the metrics engine over it
	GetChurnAnalytics(ctx context.Context, req *dto.GetChurnAnalyticsRequest) (*dto.ChurnAnalyticsResponse, error)

	// GetChurnOptions returns the bucketing choices for chart UIs
	GetChurnOptions(ctx context.Context) *dto.ChurnOptionsResponse
}

type churnService struct {
	ServiceParams

	// now is swappable so tests can pin the series right edge
	now func() time.Time
}

func NewChurnService(params ServiceParams) ChurnService {
	return &churnService{
		ServiceParams: params,
		now:           time.Now,
	}
}

func (s *churnService) GetChurnAnalytics(
	ctx context.Context,
	req *dto.GetChurnAnalyticsRequest,
) (*dto.ChurnAnalyticsResponse, error) {
	if req.TenantID == "" {
		req.TenantID = types.GetTenantID(ctx)
	}

	// Intake validation: the stricter request cap applies here.
	query, err := req.Decode(s.Config.MaxRequestWindowDays())
	if err != nil {
		return nil, err
	}

	// Engine validation: the engine itself never computes past the
	// trailing window length.
	if err := validator.ValidateDateRange(query.StartDate, query.EndDate, types.ChurnWindowDays); err != nil {
		return nil, err
	}

	series, err := s.getOrBuildSeries(ctx, query)
	if err != nil {
		return nil, err
	}

	result := churn.ComputeMetrics(series, query.StartDate, query.EndDate, query.AggregateBy)
	return dto.NewChurnAnalyticsResponse(result), nil
}

func (s *churnService) GetChurnOptions(_ context.Context) *dto.ChurnOptionsResponse {
	return &dto.ChurnOptionsResponse{
		AggregateOptions: types.AggregateOptions(),
	}
}

// getOrBuildSeries resolves the daily series for the query through the
// cache. The series always extends far enough left to cover the trailing
// window of the earliest requested day plus one full previous period with
// its own window, capped at the series max age.
func (s *churnService) getOrBuildSeries(ctx context.Context, q *dto.ChurnQuery) (*churn.DailySeries, error) {
	today := types.ToDate(s.now())

	rangeDays := types.DaysBetweenInclusive(q.StartDate, q.EndDate)
	extFrom := types.AddDays(q.StartDate, -(types.ChurnWindowDays - 1))
	lastStart := types.AddDays(q.StartDate, -rangeDays)
	baseFrom := types.MinDate(extFrom, types.AddDays(lastStart, -(types.ChurnWindowDays-1)))

	since := types.MaxDate(baseFrom, types.AddDays(today, -types.ChurnSeriesMaxAgeDays))
	to := today

	key := cache.GenerateKey(cache.PrefixChurnSeries,
		q.TenantID,
		types.FormatDate(since),
		types.FormatDate(to),
		productCacheKey(q.ProductIDs),
	)

	if series, ok := s.cachedSeries(ctx, key); ok {
		return series, nil
	}

	series, err := s.buildSeries(ctx, q, since, to)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, series, types.ChurnSeriesTTL)
	return series, nil
}

// cachedSeries reads a series from the cache. The in-memory backend hands
// back the stored pointer, the redis backend hands back a JSON string; any
// value that cannot be decoded counts as a miss so a bad cache never fails
// a request.
func (s *churnService) cachedSeries(ctx context.Context, key string) (*churn.DailySeries, bool) {
	value, ok := s.Cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	switch v := value.(type) {
	case *churn.DailySeries:
		return v, true
	case string:
		return decodeSeries(s, key, []byte(v))
	case []byte:
		return decodeSeries(s, key, v)
	default:
		s.Logger.Warnw("unexpected churn series cache value", "key", key)
		return nil, false
	}
}

func decodeSeries(s *churnService, key string, payload []byte) (*churn.DailySeries, bool) {
	var series churn.DailySeries
	if err := json.Unmarshal(payload, &series); err != nil {
		s.Logger.Warnw("failed to decode cached churn series", "key", key, "error", err)
		return nil, false
	}
	return &series, true
}

// buildSeries runs the raw event queries and folds them into a series.
// Builds are deterministic, so concurrent misses for the same key may each
// build without coordination; duplicate work is harmless.
func (s *churnService) buildSeries(ctx context.Context, q *dto.ChurnQuery, since, to time.Time) (*churn.DailySeries, error) {
	filter := &subscription.Filter{
		TenantID:   q.TenantID,
		ProductIDs: q.ProductIDs,
	}

	baseActive, err := s.SubscriptionEventRepo.CountActiveBefore(ctx, filter, since)
	if err != nil {
		return nil, err
	}

	events, err := s.SubscriptionEventRepo.ListEvents(ctx, &subscription.EventQuery{
		Filter:               *filter,
		CreatedThrough:       to,
		DeactivatedOnOrAfter: types.AddDays(since, -(types.ChurnWindowDays - 1)),
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("building churn daily series",
		"tenant_id", q.TenantID,
		"since", types.FormatDate(since),
		"to", types.FormatDate(to),
		"base_active", baseActive,
		"events", len(events),
	)

	return churn.BuildDailySeries(churn.BuildParams{
		Since:      since,
		To:         to,
		RangeEnd:   q.EndDate,
		BaseActive: baseActive,
		Events:     events,
	}), nil
}

// productCacheKey folds the normalized product filter into the cache key;
// the sentinel "all" marks the unfiltered series.
func productCacheKey(productIDs []string) string {
	if len(productIDs) == 0 {
		return "all"
	}
	return strings.Join(productIDs, ",")
}
