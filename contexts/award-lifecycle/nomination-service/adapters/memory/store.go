package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"accolade/contexts/award-lifecycle/nomination-service/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	"accolade/contexts/award-lifecycle/nomination-service/ports"
	"accolade/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-memory adapter implementing every nomination port. One
// mutex guards all maps so multi-row units of work stay atomic, mirroring
// the transactional postgres adapter.
type Store struct {
	mu sync.RWMutex

	nominators  map[string]entities.Nominator
	nominees    map[string]entities.Nominee
	nominations map[string]entities.Nomination
	audits      []entities.StateOverrideAudit
	entries     []outbox.Entry

	settings ports.Settings
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		nominators:  make(map[string]entities.Nominator),
		nominees:    make(map[string]entities.Nominee),
		nominations: make(map[string]entities.Nomination),
		settings:    ports.Settings{NominationsOpen: true},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) SetSettings(settings ports.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frozen := now.UTC()
	s.now = func() time.Time { return frozen }
}

// SyncEntries returns a copy of every outbox entry committed so far, in
// creation order. Tests feed these into the dispatcher store.
func (s *Store) SyncEntries() []outbox.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]outbox.Entry(nil), s.entries...)
}

// Audits returns recorded force-set audit rows.
func (s *Store) Audits() []entities.StateOverrideAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.StateOverrideAudit(nil), s.audits...)
}

func (s *Store) Current(_ context.Context) (ports.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) CreateNomination(
	_ context.Context,
	nominator entities.Nominator,
	nominee entities.Nominee,
	nomination entities.Nomination,
	entry outbox.Entry,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.nominations {
		if existing.Active() &&
			existing.NomineeIdentity == nomination.NomineeIdentity &&
			existing.SubcategoryID == nomination.SubcategoryID {
			return domainerrors.ErrDuplicateNomination
		}
	}

	s.nominators[nominator.NominatorID] = nominator
	s.nominees[nominee.NomineeID] = nominee
	s.nominations[nomination.NominationID] = nomination
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) GetNomination(_ context.Context, nominationID string) (entities.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return entities.Nomination{}, domainerrors.ErrNominationNotFound
	}
	return nomination, nil
}

func (s *Store) GetNominee(_ context.Context, nomineeID string) (entities.Nominee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nominee, ok := s.nominees[strings.TrimSpace(nomineeID)]
	if !ok {
		return entities.Nominee{}, domainerrors.ErrNomineeNotFound
	}
	return nominee, nil
}

func (s *Store) ListNominationsByState(_ context.Context, state entities.NominationState) ([]entities.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Nomination, 0)
	for _, nomination := range s.nominations {
		if nomination.State == state {
			items = append(items, nomination)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].NominationID < items[j].NominationID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) FindActiveNomination(_ context.Context, nomineeIdentity, subcategoryID string) (entities.Nomination, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, nomination := range s.nominations {
		if nomination.Active() &&
			nomination.NomineeIdentity == strings.TrimSpace(nomineeIdentity) &&
			nomination.SubcategoryID == strings.TrimSpace(subcategoryID) {
			return nomination, true, nil
		}
	}
	return entities.Nomination{}, false, nil
}

func (s *Store) ApproveNomination(
	_ context.Context,
	nominationID string,
	approvedAt time.Time,
	live entities.LiveIdentity,
	entry outbox.Entry,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return false, domainerrors.ErrNominationNotFound
	}
	if nomination.State != entities.NominationStateSubmitted {
		return false, nil
	}
	for nomineeID, other := range s.nominees {
		if nomineeID != nomination.NomineeID && other.LiveSlug == live.Slug {
			return false, domainerrors.ErrSlugTaken
		}
	}

	approved := approvedAt.UTC()
	nomination.State = entities.NominationStateApproved
	nomination.ApprovedAt = &approved
	nomination.UpdatedAt = approved
	s.nominations[nomination.NominationID] = nomination

	nominee := s.nominees[nomination.NomineeID]
	nominee.LiveSlug = live.Slug
	nominee.LiveURL = live.URL
	nominee.UpdatedAt = approved
	s.nominees[nominee.NomineeID] = nominee

	s.entries = append(s.entries, entry)
	return true, nil
}

func (s *Store) RejectNomination(_ context.Context, nominationID string, rejectedAt time.Time, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return false, domainerrors.ErrNominationNotFound
	}
	if nomination.State != entities.NominationStateSubmitted {
		return false, nil
	}

	rejected := rejectedAt.UTC()
	nomination.State = entities.NominationStateRejected
	nomination.RejectedAt = &rejected
	nomination.RejectionReason = reason
	nomination.UpdatedAt = rejected
	s.nominations[nomination.NominationID] = nomination
	return true, nil
}

func (s *Store) SetAdditionalVotes(_ context.Context, nominationID string, votes int, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nomination, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return domainerrors.ErrNominationNotFound
	}
	nomination.AdditionalVotes = votes
	nomination.UpdatedAt = updatedAt.UTC()
	s.nominations[nomination.NominationID] = nomination
	return nil
}

func (s *Store) ForceSetState(_ context.Context, nomination entities.Nomination, audit entities.StateOverrideAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nominations[nomination.NominationID]; !ok {
		return domainerrors.ErrNominationNotFound
	}
	s.nominations[nomination.NominationID] = nomination
	s.audits = append(s.audits, audit)
	return nil
}

func (s *Store) SlugExists(_ context.Context, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, nominee := range s.nominees {
		if nominee.LiveSlug == slug {
			return true, nil
		}
	}
	return false, nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.SettingsSource = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
