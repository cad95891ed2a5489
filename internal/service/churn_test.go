package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/churnalytics/internal/api/dto"
	"github.com/vidinfra/churnalytics/internal/cache"
	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	ierr "github.com/vidinfra/churnalytics/internal/errors"
	"github.com/vidinfra/churnalytics/internal/testutil"
	"github.com/vidinfra/churnalytics/internal/types"
)

type ChurnServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ChurnService
	store   *testutil.InMemorySubscriptionEventStore

	// today is the pinned right edge of every series in the suite
	today time.Time
}

func TestChurnService(t *testing.T) {
	suite.Run(t, new(ChurnServiceSuite))
}

func (s *ChurnServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.today = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	s.store = s.GetStores().SubscriptionEventRepo.(*testutil.InMemorySubscriptionEventStore)
	s.service = s.newService()
}

func (s *ChurnServiceSuite) newService() ChurnService {
	svc := NewChurnService(ServiceParams{
		Logger:                s.GetLogger(),
		Config:                s.GetConfig(),
		Cache:                 s.GetCache(),
		SubscriptionEventRepo: s.store,
	})
	svc.(*churnService).now = func() time.Time { return s.today }
	return svc
}

func (s *ChurnServiceSuite) insertActive(n int, created time.Time) {
	for i := 0; i < n; i++ {
		err := s.store.InsertEvent(s.GetContext(), &subscription.Event{
			ID:            fmt.Sprintf("active-%s-%d", types.FormatDate(created), i),
			TenantID:      types.DefaultTenantID,
			CreatedAt:     created,
			PriceCents:    1000,
			BillingPeriod: types.BILLING_PERIOD_MONTHLY,
		})
		s.Require().NoError(err)
	}
}

func (s *ChurnServiceSuite) insertChurned(n int, created, deactivated time.Time, priceCents int64, period types.BillingPeriod) {
	for i := 0; i < n; i++ {
		err := s.store.InsertEvent(s.GetContext(), &subscription.Event{
			ID:            fmt.Sprintf("churned-%s-%d", types.FormatDate(deactivated), i),
			TenantID:      types.DefaultTenantID,
			CreatedAt:     created,
			DeactivatedAt: &deactivated,
			PriceCents:    priceCents,
			BillingPeriod: period,
		})
		s.Require().NoError(err)
	}
}

func newProductEvent(id, productID string, created time.Time, deactivated *time.Time) *subscription.Event {
	return &subscription.Event{
		ID:            id,
		TenantID:      types.DefaultTenantID,
		ProductID:     productID,
		CreatedAt:     created,
		DeactivatedAt: deactivated,
		PriceCents:    1000,
		BillingPeriod: types.BILLING_PERIOD_MONTHLY,
	}
}

// seedBaseline loads the canonical scenario: 95 long lived subscribers, 5
// that churn on June 10 worth 100 cents of MRR each, and 10 signups on
// June 3. Over June that is 5 churned against a base of 100 plus 10 new.
func (s *ChurnServiceSuite) seedBaseline() {
	s.insertActive(95, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	s.insertChurned(5,
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		1200, types.BILLING_PERIOD_ANNUAL)
	s.insertActive(10, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
}

func (s *ChurnServiceSuite) TestGetChurnAnalytics() {
	s.seedBaseline()

	resp, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	s.Require().NoError(err)

	s.Equal("2025-06-01", resp.StartDate)
	s.Equal("2025-06-30", resp.EndDate)
	s.Equal(types.AggregateByDay, resp.AggregateBy)

	s.Equal(4.55, resp.Metrics.CustomerChurnRate)
	s.Equal(int64(5), resp.Metrics.ChurnedSubscribers)
	s.Equal(int64(500), resp.Metrics.ChurnedMRRCents)

	// nothing churned in the preceding 30 days
	s.Equal(0.0, resp.Metrics.LastPeriodChurnRate)

	s.Len(resp.DailyData, 30)
	s.Equal("2025-06-01", resp.DailyData[0].Date)
	s.Equal("2025-06-30", resp.DailyData[29].Date)

	// the churn day and everything after carries the churn in its window
	s.Equal(int64(0), resp.DailyData[8].ChurnedSubscribers)
	s.Equal(int64(5), resp.DailyData[9].ChurnedSubscribers)
	s.Equal(int64(500), resp.DailyData[9].ChurnedMRRCents)
	s.Equal(int64(5), resp.DailyData[29].ChurnedSubscribers)
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsMonthly() {
	s.seedBaseline()

	resp, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-30",
		AggregateBy: "month",
	})
	s.Require().NoError(err)

	s.Equal(types.AggregateByMonth, resp.AggregateBy)
	s.Require().Len(resp.DailyData, 1)
	s.Equal("2025-06-01", resp.DailyData[0].Date)
	s.Equal(4.55, resp.DailyData[0].CustomerChurnRate)
	s.Equal(int64(5), resp.DailyData[0].ChurnedSubscribers)
	s.Equal(int64(500), resp.DailyData[0].ChurnedMRRCents)
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsLastPeriod() {
	s.insertActive(95, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	// one churn in May, the period preceding the request
	s.insertChurned(1,
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
		1000, types.BILLING_PERIOD_MONTHLY)

	resp, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	s.Require().NoError(err)

	s.Equal(0.0, resp.Metrics.CustomerChurnRate)
	// 1 churned over a base of 96 active at the start of May 2
	s.Equal(1.04, resp.Metrics.LastPeriodChurnRate)
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsValidation() {
	testCases := []struct {
		name string
		req  *dto.GetChurnAnalyticsRequest
	}{
		{
			name: "missing dates",
			req:  &dto.GetChurnAnalyticsRequest{},
		},
		{
			name: "unparseable dates",
			req: &dto.GetChurnAnalyticsRequest{
				StartDate: "01-06-2025",
				EndDate:   "30-06-2025",
			},
		},
		{
			name: "end before start",
			req: &dto.GetChurnAnalyticsRequest{
				StartDate: "2025-06-30",
				EndDate:   "2025-06-01",
			},
		},
		{
			name: "range beyond the window cap",
			req: &dto.GetChurnAnalyticsRequest{
				StartDate: "2025-06-01",
				EndDate:   "2025-07-05",
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.GetChurnAnalytics(s.GetContext(), tc.req)
			s.Nil(resp)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsExactWindowAllowed() {
	s.seedBaseline()

	// 30 days inclusive sits exactly on the cap
	resp, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	s.Require().NoError(err)
	s.NotNil(resp)

	// 31 days inclusive is one too many
	_, err = s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-05-31",
		EndDate:   "2025-06-30",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsCached() {
	s.seedBaseline()

	first, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	s.Require().NoError(err)

	// the series is memoized under its tenant, extent and product key
	key := cache.GenerateKey(cache.PrefixChurnSeries,
		types.DefaultTenantID, "2025-04-02", "2025-06-30", "all")
	_, ok := s.GetCache().Get(s.GetContext(), key)
	s.True(ok)

	// wiping the raw store proves the second read never rebuilds
	s.store.Clear()

	second, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsCacheUnavailable() {
	s.seedBaseline()

	svc := NewChurnService(ServiceParams{
		Logger:                s.GetLogger(),
		Config:                s.GetConfig(),
		Cache:                 testutil.NewUnavailableCache(),
		SubscriptionEventRepo: s.store,
	})
	svc.(*churnService).now = func() time.Time { return s.today }

	// a dead cache degrades to a rebuild on every request, never an error
	for i := 0; i < 2; i++ {
		resp, err := svc.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
			StartDate: "2025-06-01",
			EndDate:   "2025-06-30",
		})
		s.Require().NoError(err)
		s.Equal(4.55, resp.Metrics.CustomerChurnRate)
	}
}

func (s *ChurnServiceSuite) TestGetChurnAnalyticsProductFilter() {
	created := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	deactivated := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		s.Require().NoError(s.store.InsertEvent(s.GetContext(), newProductEvent(
			fmt.Sprintf("a-%d", i), "prod-a", created, nil)))
		s.Require().NoError(s.store.InsertEvent(s.GetContext(), newProductEvent(
			fmt.Sprintf("b-%d", i), "prod-b", created, nil)))
	}
	s.Require().NoError(s.store.InsertEvent(s.GetContext(), newProductEvent(
		"a-churned", "prod-a", created, &deactivated)))

	resp, err := s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate:  "2025-06-01",
		EndDate:    "2025-06-30",
		ProductIDs: []string{"prod-a"},
	})
	s.Require().NoError(err)

	// only product a counts: 1 churned over a base of 11
	s.Equal(int64(1), resp.Metrics.ChurnedSubscribers)
	s.Equal(9.09, resp.Metrics.CustomerChurnRate)

	// the filtered series lives under its own cache key
	key := cache.GenerateKey(cache.PrefixChurnSeries,
		types.DefaultTenantID, "2025-04-02", "2025-06-30", "prod-a")
	_, ok := s.GetCache().Get(s.GetContext(), key)
	s.True(ok)

	// the unfiltered view sees both products
	resp, err = s.service.GetChurnAnalytics(s.GetContext(), &dto.GetChurnAnalyticsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), resp.Metrics.ChurnedSubscribers)
	s.Equal(4.76, resp.Metrics.CustomerChurnRate)
}

func (s *ChurnServiceSuite) TestGetChurnOptions() {
	resp := s.service.GetChurnOptions(s.GetContext())

	s.Require().Len(resp.AggregateOptions, 2)
	s.Equal(types.AggregateByDay, resp.AggregateOptions[0].Value)
	s.Equal(types.AggregateByMonth, resp.AggregateOptions[1].Value)
}
