package unit

import (
	"context"
	"errors"
	"strings"
	"testing"

	nominationservice "accolade/contexts/award-lifecycle/nomination-service"
	"accolade/contexts/award-lifecycle/nomination-service/adapters/memory"
	nominationerrors "accolade/contexts/award-lifecycle/nomination-service/domain/errors"
	nominationports "accolade/contexts/award-lifecycle/nomination-service/ports"
	nominationhttp "accolade/contexts/award-lifecycle/nomination-service/transport/http"
	"accolade/internal/shared/outbox"
)

func personNomination(email string) nominationhttp.SubmitNominationRequest {
	return nominationhttp.SubmitNominationRequest{
		Nominator: nominationhttp.SubmitNominatorPayload{
			Email:       "nominator@example.com",
			DisplayName: "Nora Minator",
			Company:     "Example Co",
			Country:     "DE",
		},
		Nominee: nominationhttp.SubmitNomineePayload{
			Kind:         "person",
			DisplayName:  "Jane Doe",
			FirstName:    "Jane",
			LastName:     "Doe",
			ContactEmail: email,
			AssetURL:     "https://cdn.example.com/jane.jpg",
			Pitch:        "Shipped the impossible.",
		},
		Category: nominationhttp.SubmitCategoryPayload{
			CategoryGroupID: "group-1",
			SubcategoryID:   "subcat-1",
		},
	}
}

func TestSubmitNominationRecordsEntitiesAndSyncEntry(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	resp, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if resp.State != "submitted" {
		t.Fatalf("expected submitted state, got %s", resp.State)
	}

	entries := module.Store.SyncEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 outbox entry, got %d", len(entries))
	}
	if entries[0].EventType != outbox.EventNominatorSync {
		t.Fatalf("expected nominator_sync entry, got %s", entries[0].EventType)
	}
	if entries[0].Status != outbox.StatusPending {
		t.Fatalf("expected pending entry, got %s", entries[0].Status)
	}
}

func TestSubmitNominationRejectsDuplicateActiveNominee(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	if _, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com")); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("JANE@example.com"))
	if !errors.Is(err, nominationerrors.ErrDuplicateNomination) {
		t.Fatalf("expected duplicate nomination error, got %v", err)
	}
}

func TestSubmitNominationClosedWindow(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)
	module.Store.SetSettings(nominationports.Settings{NominationsOpen: false})

	_, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if !errors.Is(err, nominationerrors.ErrNominationsClosed) {
		t.Fatalf("expected nominations closed error, got %v", err)
	}
}

func TestSubmitNominationValidatesNominee(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	req := personNomination("jane@example.com")
	req.Nominee.Pitch = "   "
	_, err := module.Handler.SubmitNominationHandler(context.Background(), req)
	if !errors.Is(err, nominationerrors.ErrInvalidNominationInput) {
		t.Fatalf("expected invalid input error for blank pitch, got %v", err)
	}

	req = personNomination("jane@example.com")
	req.Nominee.AssetURL = "   "
	_, err = module.Handler.SubmitNominationHandler(context.Background(), req)
	if !errors.Is(err, nominationerrors.ErrInvalidNominationInput) {
		t.Fatalf("expected invalid input error for missing headshot, got %v", err)
	}
}

func TestApproveAssignsLiveIdentityAndIsIdempotent(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)
	module.Store.SetSettings(nominationports.Settings{
		NominationsOpen: true,
		PublicBaseURL:   "https://awards.example.com",
	})

	submitted, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	first, err := module.Handler.ApproveNominationHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if first.LiveSlug != "jane-doe" {
		t.Fatalf("expected slug jane-doe, got %s", first.LiveSlug)
	}
	if first.LiveURL != "https://awards.example.com/subcat-1/jane-doe" {
		t.Fatalf("unexpected live url: %s", first.LiveURL)
	}
	if first.State != "approved" {
		t.Fatalf("expected approved state, got %s", first.State)
	}

	second, err := module.Handler.ApproveNominationHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}
	if second.LiveSlug != first.LiveSlug || second.LiveURL != first.LiveURL {
		t.Fatalf("re-approve changed live identity: %s vs %s", second.LiveURL, first.LiveURL)
	}

	nomineeSyncs := 0
	for _, entry := range module.Store.SyncEntries() {
		if entry.EventType == outbox.EventNomineeSync {
			nomineeSyncs++
		}
	}
	if nomineeSyncs != 1 {
		t.Fatalf("expected exactly 1 nominee_sync entry, got %d", nomineeSyncs)
	}
}

func TestApproveDisambiguatesSlugCollision(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	first, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	otherSubcat := personNomination("jane.other@example.com")
	otherSubcat.Category.SubcategoryID = "subcat-2"
	second, err := module.Handler.SubmitNominationHandler(context.Background(), otherSubcat)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	firstApproved, err := module.Handler.ApproveNominationHandler(context.Background(), first.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	secondApproved, err := module.Handler.ApproveNominationHandler(context.Background(), second.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}

	if firstApproved.LiveSlug != "jane-doe" {
		t.Fatalf("expected base slug for first approval, got %s", firstApproved.LiveSlug)
	}
	if secondApproved.LiveSlug == firstApproved.LiveSlug {
		t.Fatalf("expected collision to be disambiguated, both got %s", firstApproved.LiveSlug)
	}
	if !strings.HasPrefix(secondApproved.LiveSlug, "jane-doe-") {
		t.Fatalf("expected suffixed slug, got %s", secondApproved.LiveSlug)
	}
}

// staleSlugIndex reports every slug as free, standing in for a reader that
// has not seen a concurrent approval yet.
type staleSlugIndex struct {
	*memory.Store
}

func (s staleSlugIndex) SlugExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestApproveRecoversWhenSlugCheckMissesWriter(t *testing.T) {
	store := memory.NewStore()
	module := nominationservice.NewModule(nominationservice.Dependencies{
		Repository: staleSlugIndex{store},
		Settings:   store,
		Clock:      store,
		IDGen:      store,
	})
	module.Store = store

	first, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	otherSubcat := personNomination("jane.other@example.com")
	otherSubcat.Category.SubcategoryID = "subcat-2"
	second, err := module.Handler.SubmitNominationHandler(context.Background(), otherSubcat)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	firstApproved, err := module.Handler.ApproveNominationHandler(context.Background(), first.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	// The slug check still says jane-doe is free, so only the write can
	// surface the collision.
	secondApproved, err := module.Handler.ApproveNominationHandler(context.Background(), second.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}

	if firstApproved.LiveSlug != "jane-doe" {
		t.Fatalf("expected base slug for first approval, got %s", firstApproved.LiveSlug)
	}
	if secondApproved.LiveSlug == firstApproved.LiveSlug {
		t.Fatalf("expected write conflict to force a new slug, both got %s", firstApproved.LiveSlug)
	}
	if !strings.HasPrefix(secondApproved.LiveSlug, "jane-doe-") {
		t.Fatalf("expected suffixed slug, got %s", secondApproved.LiveSlug)
	}
	if !strings.HasSuffix(secondApproved.LiveURL, "/"+secondApproved.LiveSlug) {
		t.Fatalf("live url %s does not end with slug %s", secondApproved.LiveURL, secondApproved.LiveSlug)
	}
}

func TestRejectIsTerminalAndFreesSlot(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	submitted, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	err = module.Handler.RejectNominationHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.RejectNominationRequest{Reason: "incomplete"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err = module.Handler.ApproveNominationHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if !errors.Is(err, nominationerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition after reject, got %v", err)
	}

	// The rejection frees the nominee+subcategory slot.
	if _, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com")); err != nil {
		t.Fatalf("resubmit after reject failed: %v", err)
	}
}

func TestAdjustVotesValidatesAndStoresOverlay(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	submitted, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	err = module.Handler.AdjustVotesHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.AdjustVotesRequest{AdditionalVotes: -5})
	if !errors.Is(err, nominationerrors.ErrInvalidAdditionalVotes) {
		t.Fatalf("expected invalid additional votes error, got %v", err)
	}

	if err := module.Handler.AdjustVotesHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.AdjustVotesRequest{AdditionalVotes: 250}); err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	detail, err := module.Handler.GetNominationHandler(context.Background(), submitted.NominationID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.Nomination.AdditionalVotes != 250 {
		t.Fatalf("expected overlay 250, got %d", detail.Nomination.AdditionalVotes)
	}
}

func TestForceStateWritesAudit(t *testing.T) {
	module := nominationservice.NewInMemoryModule(nil)

	submitted, err := module.Handler.SubmitNominationHandler(context.Background(), personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	err = module.Handler.RejectNominationHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.RejectNominationRequest{})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	err = module.Handler.ForceStateHandler(context.Background(), submitted.NominationID, "admin", nominationhttp.ForceStateRequest{
		State:  "submitted",
		Reason: "rejected by mistake",
	})
	if err != nil {
		t.Fatalf("force state failed: %v", err)
	}

	detail, err := module.Handler.GetNominationHandler(context.Background(), submitted.NominationID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.Nomination.State != "submitted" {
		t.Fatalf("expected forced submitted state, got %s", detail.Nomination.State)
	}

	audits := module.Store.Audits()
	if len(audits) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audits))
	}
	if string(audits[0].FromState) != "rejected" || string(audits[0].ToState) != "submitted" {
		t.Fatalf("unexpected audit transition %s -> %s", audits[0].FromState, audits[0].ToState)
	}
	if audits[0].Reason != "rejected by mistake" {
		t.Fatalf("unexpected audit reason %q", audits[0].Reason)
	}
}
