package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainerrors "accolade/contexts/award-lifecycle/sync-dispatcher/domain/errors"
	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
	"accolade/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-memory outbox adapter. Claim and mark operations take the
// same mutex, so a claim cycle observes the same exclusivity the conditional
// updates give the postgres adapter.
type Store struct {
	mu      sync.RWMutex
	entries map[string]outbox.Entry
	order   []string
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]outbox.Entry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frozen := now.UTC()
	s.now = func() time.Time { return frozen }
}

// Seed loads entries produced by other services' stores.
func (s *Store) Seed(entries []outbox.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		if _, exists := s.entries[entry.EntryID]; !exists {
			s.order = append(s.order, entry.EntryID)
		}
		s.entries[entry.EntryID] = entry
	}
}

// Entry returns the current state of one entry for test assertions.
func (s *Store) Entry(entryID string) (outbox.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[entryID]
	return entry, ok
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) ClaimPending(_ context.Context, claimToken string, limit int, now time.Time) ([]outbox.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claimed := make([]outbox.Entry, 0, limit)
	for _, entryID := range s.order {
		if len(claimed) >= limit {
			break
		}
		entry := s.entries[entryID]
		if entry.Status != outbox.StatusPending || entry.NextAttemptAt.After(now) {
			continue
		}
		entry.Status = outbox.StatusProcessing
		entry.ClaimToken = claimToken
		entry.AttemptCount++
		entry.UpdatedAt = now.UTC()
		s.entries[entryID] = entry
		claimed = append(claimed, entry)
	}
	return claimed, nil
}

func (s *Store) RequeueStale(_ context.Context, cutoff time.Time, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requeued := 0
	for entryID, entry := range s.entries {
		if entry.Status != outbox.StatusProcessing || !entry.UpdatedAt.Before(cutoff) {
			continue
		}
		entry.Status = outbox.StatusPending
		entry.ClaimToken = ""
		entry.UpdatedAt = now.UTC()
		s.entries[entryID] = entry
		requeued++
	}
	return requeued, nil
}

func (s *Store) MarkDone(_ context.Context, entryID, claimToken string, now time.Time) error {
	return s.mark(entryID, claimToken, func(entry *outbox.Entry) {
		entry.Status = outbox.StatusDone
		entry.LastError = ""
		entry.UpdatedAt = now.UTC()
	})
}

func (s *Store) MarkRetry(_ context.Context, entryID, claimToken string, nextAttemptAt time.Time, lastError string, now time.Time) error {
	return s.mark(entryID, claimToken, func(entry *outbox.Entry) {
		entry.Status = outbox.StatusPending
		entry.LastError = lastError
		entry.NextAttemptAt = nextAttemptAt.UTC()
		entry.ClaimToken = ""
		entry.UpdatedAt = now.UTC()
	})
}

func (s *Store) MarkDead(_ context.Context, entryID, claimToken, lastError string, now time.Time) error {
	return s.mark(entryID, claimToken, func(entry *outbox.Entry) {
		entry.Status = outbox.StatusDead
		entry.LastError = lastError
		entry.UpdatedAt = now.UTC()
	})
}

func (s *Store) mark(entryID, claimToken string, apply func(*outbox.Entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok || entry.Status != outbox.StatusProcessing || entry.ClaimToken != claimToken {
		return domainerrors.ErrEntryNotClaimed
	}
	apply(&entry)
	s.entries[entryID] = entry
	return nil
}

func (s *Store) CountByStatus(_ context.Context) (map[outbox.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[outbox.Status]int)
	for _, entry := range s.entries {
		counts[entry.Status]++
	}
	return counts, nil
}

func (s *Store) OldestPendingCreatedAt(_ context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var oldest *time.Time
	for _, entry := range s.entries {
		if entry.Status != outbox.StatusPending {
			continue
		}
		createdAt := entry.CreatedAt.UTC()
		if oldest == nil || createdAt.Before(*oldest) {
			oldest = &createdAt
		}
	}
	return oldest, nil
}

func (s *Store) ListDead(_ context.Context, limit int) ([]outbox.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dead := make([]outbox.Entry, 0)
	for _, entryID := range s.order {
		entry := s.entries[entryID]
		if entry.Status == outbox.StatusDead {
			dead = append(dead, entry)
		}
	}
	sort.Slice(dead, func(i, j int) bool {
		return dead[i].CreatedAt.Before(dead[j].CreatedAt)
	})
	if len(dead) > limit {
		dead = dead[:limit]
	}
	return dead, nil
}

var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
