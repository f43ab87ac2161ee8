package unit

import (
	"context"
	"testing"
	"time"

	nominationservice "accolade/contexts/award-lifecycle/nomination-service"
	nominationhttp "accolade/contexts/award-lifecycle/nomination-service/transport/http"
	syncdispatcher "accolade/contexts/award-lifecycle/sync-dispatcher"
	voteledger "accolade/contexts/award-lifecycle/vote-ledger"
	voteports "accolade/contexts/award-lifecycle/vote-ledger/ports"
	votehttp "accolade/contexts/award-lifecycle/vote-ledger/transport/http"
	"accolade/internal/platform/crm"
)

// Full path through the platform: intake, review, voting, and the outbox
// drain into the CRM collaborator.
func TestAwardsFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	nominations := nominationservice.NewInMemoryModule(nil)
	votes := voteledger.NewInMemoryModule(nil)
	collaborator := crm.NewCollaborator()
	dispatcher := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)

	submitted, err := nominations.Handler.SubmitNominationHandler(ctx, personNomination("jane@example.com"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	approved, err := nominations.Handler.ApproveNominationHandler(ctx, submitted.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	detail, err := nominations.Handler.GetNominationHandler(ctx, submitted.NominationID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	approvedAt, err := time.Parse(time.RFC3339, detail.Nomination.ApprovedAt)
	if err != nil {
		t.Fatalf("parse approved_at: %v", err)
	}
	votes.Store.SetNomination(voteports.NominationView{
		NominationID:    detail.Nomination.NominationID,
		NomineeID:       detail.Nominee.NomineeID,
		NomineeName:     detail.Nominee.DisplayName,
		SubcategoryID:   detail.Nomination.SubcategoryID,
		State:           detail.Nomination.State,
		AdditionalVotes: detail.Nomination.AdditionalVotes,
		ApprovedAt:      &approvedAt,
	})

	if _, err := votes.Handler.CastVoteHandler(ctx, votehttp.CastVoteRequest{
		NominationID: submitted.NominationID,
		VoterEmail:   "voter@example.com",
		VoterName:    "Vera Voter",
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	board, err := votes.Handler.LeaderboardHandler(ctx, "subcat-1")
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(board.Items) != 1 || board.Items[0].Total != 1 {
		t.Fatalf("unexpected leaderboard: %+v", board.Items)
	}

	// Drain everything the two services enqueued.
	dispatcher.Store.Seed(nominations.Store.SyncEntries())
	dispatcher.Store.Seed(votes.Store.SyncEntries())
	if err := dispatcher.Dispatcher.RunOnce(ctx); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if _, ok := collaborator.Contact("nominator@example.com"); !ok {
		t.Fatalf("nominator contact missing in CRM")
	}
	nominee, ok := collaborator.Contact("jane@example.com")
	if !ok {
		t.Fatalf("nominee contact missing in CRM")
	}
	if nominee.LiveURL != approved.LiveURL {
		t.Fatalf("nominee contact live url %q, want %q", nominee.LiveURL, approved.LiveURL)
	}
	if _, ok := collaborator.Contact("voter@example.com"); !ok {
		t.Fatalf("voter contact missing in CRM")
	}

	emails := collaborator.SentEmails()
	if len(emails) != 1 || emails[0].To != "jane@example.com" {
		t.Fatalf("expected one live-page email to the nominee, got %+v", emails)
	}

	health, err := dispatcher.Handler.OutboxHealthHandler(ctx)
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if health.Pending != 0 || health.Dead != 0 || health.Done != 3 {
		t.Fatalf("unexpected outbox health after drain: %+v", health)
	}
}

func TestCompanyNomineeSyncsAsCompanyRecord(t *testing.T) {
	ctx := context.Background()
	nominations := nominationservice.NewInMemoryModule(nil)
	collaborator := crm.NewCollaborator()
	dispatcher := syncdispatcher.NewInMemoryModule(collaborator, collaborator, nil)

	req := nominationhttp.SubmitNominationRequest{
		Nominator: nominationhttp.SubmitNominatorPayload{
			Email:       "nominator@example.com",
			DisplayName: "Nora Minator",
		},
		Nominee: nominationhttp.SubmitNomineePayload{
			Kind:          "company",
			CompanyName:   "Acme Robotics",
			CompanyDomain: "acme-robotics.example",
			AssetURL:      "https://cdn.example.com/acme.png",
			Pitch:         "Robots that actually work.",
		},
		Category: nominationhttp.SubmitCategoryPayload{
			CategoryGroupID: "group-1",
			SubcategoryID:   "subcat-2",
		},
	}
	submitted, err := nominations.Handler.SubmitNominationHandler(ctx, req)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	approved, err := nominations.Handler.ApproveNominationHandler(ctx, submitted.NominationID, "admin", nominationhttp.ApproveNominationRequest{})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.LiveSlug != "acme-robotics" {
		t.Fatalf("unexpected company slug %q", approved.LiveSlug)
	}

	dispatcher.Store.Seed(nominations.Store.SyncEntries())
	if err := dispatcher.Dispatcher.RunOnce(ctx); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	record, ok := collaborator.CompanyRecord("Acme Robotics")
	if !ok {
		t.Fatalf("company record missing in CRM")
	}
	if record.LiveURL != approved.LiveURL || record.SubcategoryID != "subcat-2" {
		t.Fatalf("unexpected company record: %+v", record)
	}
	if len(collaborator.SentEmails()) != 0 {
		t.Fatalf("company nominees must not trigger live-page emails")
	}
}
