package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"accolade/contexts/award-lifecycle/vote-ledger/domain/entities"
	domainerrors "accolade/contexts/award-lifecycle/vote-ledger/domain/errors"
	"accolade/contexts/award-lifecycle/vote-ledger/ports"
	"accolade/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-memory adapter implementing every vote-ledger port. One
// mutex guards the ledger and the ballot index so the duplicate check and
// the append stay atomic, mirroring the unique constraint in postgres.
type Store struct {
	mu sync.RWMutex

	votes       map[string]entities.Vote
	ballots     map[string]struct{}
	nominations map[string]ports.NominationView
	entries     []outbox.Entry

	settings ports.Settings
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		votes:       make(map[string]entities.Vote),
		ballots:     make(map[string]struct{}),
		nominations: make(map[string]ports.NominationView),
		settings:    ports.Settings{VotingOpen: true},
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

// SetNomination seeds the projection the ledger reads nomination state from.
func (s *Store) SetNomination(view ports.NominationView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nominations[view.NominationID] = view
}

// SyncEntries returns a copy of every outbox entry committed so far, in
// creation order. Tests feed these into the dispatcher store.
func (s *Store) SyncEntries() []outbox.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]outbox.Entry(nil), s.entries...)
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

func (s *Store) AppendVote(_ context.Context, vote entities.Vote, entry outbox.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ballotKey(vote.VoterEmail, vote.SubcategoryID)
	if _, taken := s.ballots[key]; taken {
		return domainerrors.ErrDuplicateVote
	}

	s.ballots[key] = struct{}{}
	s.votes[vote.VoteID] = vote
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) CountVotes(_ context.Context, nominationID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, vote := range s.votes {
		if vote.NominationID == strings.TrimSpace(nominationID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountVotesBySubcategory(_ context.Context, subcategoryID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, vote := range s.votes {
		if vote.SubcategoryID == strings.TrimSpace(subcategoryID) {
			counts[vote.NominationID]++
		}
	}
	return counts, nil
}

func (s *Store) GetNomination(_ context.Context, nominationID string) (ports.NominationView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view, ok := s.nominations[strings.TrimSpace(nominationID)]
	if !ok {
		return ports.NominationView{}, domainerrors.ErrNominationNotFound
	}
	return view, nil
}

func (s *Store) ListApproved(_ context.Context, subcategoryID string) ([]ports.NominationView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.NominationView, 0)
	for _, view := range s.nominations {
		if view.State == "approved" && view.SubcategoryID == strings.TrimSpace(subcategoryID) {
			items = append(items, view)
		}
	}
	return items, nil
}

func ballotKey(voterEmail, subcategoryID string) string {
	return voterEmail + "|" + subcategoryID
}

var _ ports.VoteRepository = (*Store)(nil)
var _ ports.NominationProjection = (*Store)(nil)
var _ ports.SettingsSource = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
