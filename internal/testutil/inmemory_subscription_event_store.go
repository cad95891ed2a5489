package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	ierr "github.com/vidinfra/churnalytics/internal/errors"
)

// InMemorySubscriptionEventStore mirrors the warehouse query semantics over
// an in-process map for service tests.
type InMemorySubscriptionEventStore struct {
	mu     sync.RWMutex
	events map[string]*subscription.Event
}

func NewInMemorySubscriptionEventStore() *InMemorySubscriptionEventStore {
	return &InMemorySubscriptionEventStore{
		events: make(map[string]*subscription.Event),
	}
}

func (s *InMemorySubscriptionEventStore) InsertEvent(ctx context.Context, event *subscription.Event) error {
	if event == nil {
		return ierr.NewError("event cannot be nil").
			WithHint("Event cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
	return nil
}

func (s *InMemorySubscriptionEventStore) CountActiveBefore(ctx context.Context, f *subscription.Filter, date time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, event := range s.events {
		if !s.matchesFilter(event, f.TenantID, f.ProductIDs) {
			continue
		}
		if !event.CreatedAt.Before(date) {
			continue
		}
		if event.DeactivatedAt != nil && event.DeactivatedAt.Before(date) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *InMemorySubscriptionEventStore) ListEvents(ctx context.Context, q *subscription.EventQuery) ([]*subscription.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []*subscription.Event
	for _, event := range s.events {
		if !s.matchesFilter(event, q.TenantID, q.ProductIDs) {
			continue
		}
		if event.CreatedAt.After(q.CreatedThrough) {
			continue
		}
		if event.DeactivatedAt != nil && event.DeactivatedAt.Before(q.DeactivatedOnOrAfter) {
			continue
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})

	return events, nil
}

func (s *InMemorySubscriptionEventStore) matchesFilter(event *subscription.Event, tenantID string, productIDs []string) bool {
	if event.TenantID != tenantID {
		return false
	}
	if len(productIDs) > 0 {
		found := false
		for _, id := range productIDs {
			if event.ProductID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *InMemorySubscriptionEventStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]*subscription.Event)
}
