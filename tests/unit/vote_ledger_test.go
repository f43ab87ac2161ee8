package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	voteledger "accolade/contexts/award-lifecycle/vote-ledger"
	voteerrors "accolade/contexts/award-lifecycle/vote-ledger/domain/errors"
	voteports "accolade/contexts/award-lifecycle/vote-ledger/ports"
	votehttp "accolade/contexts/award-lifecycle/vote-ledger/transport/http"
	"accolade/internal/shared/outbox"
)

func approvedView(nominationID, subcategoryID, name string, additional int, approvedAt time.Time) voteports.NominationView {
	at := approvedAt.UTC()
	return voteports.NominationView{
		NominationID:    nominationID,
		NomineeID:       nominationID + "-nominee",
		NomineeName:     name,
		SubcategoryID:   subcategoryID,
		State:           "approved",
		AdditionalVotes: additional,
		ApprovedAt:      &at,
	}
}

func TestCastVoteRecordsLedgerAndSyncEntry(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	module.Store.SetNomination(approvedView("nom-1", "subcat-1", "Jane Doe", 0, time.Now()))

	resp, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-1",
		VoterEmail:   "Voter@Example.com",
		VoterName:    "Vera Voter",
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if resp.SubcategoryID != "subcat-1" {
		t.Fatalf("expected subcategory from nomination, got %s", resp.SubcategoryID)
	}

	entries := module.Store.SyncEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 outbox entry, got %d", len(entries))
	}
	if entries[0].EventType != outbox.EventVoterSync {
		t.Fatalf("expected voter_sync entry, got %s", entries[0].EventType)
	}
}

func TestCastVoteRejectsDuplicateVoterPerSubcategory(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	module.Store.SetNomination(approvedView("nom-1", "subcat-1", "Jane Doe", 0, time.Now()))
	module.Store.SetNomination(approvedView("nom-2", "subcat-1", "John Roe", 0, time.Now()))

	if _, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-1",
		VoterEmail:   "voter@example.com",
	}); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}

	// Same voter, same subcategory, different nominee: still rejected.
	_, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-2",
		VoterEmail:   "VOTER@example.com ",
	})
	if !errors.Is(err, voteerrors.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote error, got %v", err)
	}

	if len(module.Store.SyncEntries()) != 1 {
		t.Fatalf("rejected vote must not enqueue sync entries")
	}
}

func TestCastVoteRequiresApprovedNomination(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	view := approvedView("nom-1", "subcat-1", "Jane Doe", 0, time.Now())
	view.State = "submitted"
	view.ApprovedAt = nil
	module.Store.SetNomination(view)

	_, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-1",
		VoterEmail:   "voter@example.com",
	})
	if !errors.Is(err, voteerrors.ErrNominationNotApproved) {
		t.Fatalf("expected not approved error, got %v", err)
	}

	_, err = module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-missing",
		VoterEmail:   "voter@example.com",
	})
	if !errors.Is(err, voteerrors.ErrNominationNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCastVoteClosedWindow(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	module.Store.SetNomination(approvedView("nom-1", "subcat-1", "Jane Doe", 0, time.Now()))
	module.Store.SetSettings(voteports.Settings{VotingOpen: false})

	_, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-1",
		VoterEmail:   "voter@example.com",
	})
	if !errors.Is(err, voteerrors.ErrVotingClosed) {
		t.Fatalf("expected voting closed error, got %v", err)
	}
}

func TestTallyCombinesLedgerAndOverlay(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)
	module.Store.SetNomination(approvedView("nom-1", "subcat-1", "Jane Doe", 10, earlier))
	module.Store.SetNomination(approvedView("nom-2", "subcat-1", "John Roe", 0, later))

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		target := "nom-2"
		if i == 0 {
			target = "nom-1"
		}
		if _, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
			NominationID: target,
			VoterEmail:   email,
		}); err != nil {
			t.Fatalf("vote %d failed: %v", i, err)
		}
	}

	tally, err := module.Handler.TallyHandler(context.Background(), "subcat-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if len(tally.Items) != 2 {
		t.Fatalf("expected 2 tally rows, got %d", len(tally.Items))
	}

	top := tally.Items[0]
	if top.NominationID != "nom-1" || top.RealVotes != 1 || top.AdditionalVotes != 10 || top.Total != 11 {
		t.Fatalf("unexpected top row: %+v", top)
	}
	if tally.Items[1].Total != 2 || tally.Items[1].Rank != 2 {
		t.Fatalf("unexpected second row: %+v", tally.Items[1])
	}
}

func TestTallyTieBreaksOnEarlierApproval(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)
	module.Store.SetNomination(approvedView("nom-late", "subcat-1", "John Roe", 1, later))
	module.Store.SetNomination(approvedView("nom-early", "subcat-1", "Jane Doe", 1, earlier))

	tally, err := module.Handler.TallyHandler(context.Background(), "subcat-1")
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.Items[0].NominationID != "nom-early" {
		t.Fatalf("expected earlier approval to rank first, got %s", tally.Items[0].NominationID)
	}
}

func TestNominationTallyReportsSingleNomination(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	module.Store.SetNomination(approvedView("nom-1", "subcat-1", "Jane Doe", 5, time.Now()))
	module.Store.SetNomination(approvedView("nom-2", "subcat-1", "John Roe", 0, time.Now()))

	if _, err := module.Handler.CastVoteHandler(context.Background(), votehttp.CastVoteRequest{
		NominationID: "nom-1",
		VoterEmail:   "voter@example.com",
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	resp, err := module.Handler.NominationTallyHandler(context.Background(), "nom-1")
	if err != nil {
		t.Fatalf("nomination tally failed: %v", err)
	}
	if resp.NominationID != "nom-1" || resp.NomineeName != "Jane Doe" {
		t.Fatalf("unexpected tally identity: %+v", resp)
	}
	if resp.RealVotes != 1 || resp.AdditionalVotes != 5 || resp.Total != 6 {
		t.Fatalf("unexpected tally counts: %+v", resp)
	}

	_, err = module.Handler.NominationTallyHandler(context.Background(), "nom-missing")
	if !errors.Is(err, voteerrors.ErrNominationNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLeaderboardHidesVoteBreakdown(t *testing.T) {
	module := voteledger.NewInMemoryModule(nil)
	module.Store.SetNomination(approvedView("nom-1", "subcat-1", "Jane Doe", 7, time.Now()))

	board, err := module.Handler.LeaderboardHandler(context.Background(), "subcat-1")
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(board.Items) != 1 {
		t.Fatalf("expected 1 leaderboard row, got %d", len(board.Items))
	}
	if board.Items[0].Total != 7 {
		t.Fatalf("expected combined total 7, got %d", board.Items[0].Total)
	}
}
