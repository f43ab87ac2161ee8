package crm

import (
	"context"
	"errors"
	"testing"

	domainerrors "accolade/contexts/award-lifecycle/sync-dispatcher/domain/errors"
	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
)

func TestUpsertContactIsIdempotentAndMerges(t *testing.T) {
	collaborator := NewCollaborator()
	ctx := context.Background()

	if err := collaborator.UpsertContact(ctx, ports.Contact{
		Email:       "Jane@Example.com",
		DisplayName: "Jane Doe",
		Company:     "Example Co",
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := collaborator.UpsertContact(ctx, ports.Contact{
		Email:   "jane@example.com",
		LiveURL: "https://awards.example.com/subcat-1/jane-doe",
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	contact, ok := collaborator.Contact("jane@example.com")
	if !ok {
		t.Fatalf("contact missing")
	}
	if contact.Company != "Example Co" {
		t.Fatalf("merge dropped earlier field: %+v", contact)
	}
	if contact.LiveURL == "" {
		t.Fatalf("merge dropped new field: %+v", contact)
	}
}

func TestCollaboratorRejectsEmptyKeys(t *testing.T) {
	collaborator := NewCollaborator()
	err := collaborator.UpsertContact(context.Background(), ports.Contact{DisplayName: "No Email"})
	if !errors.Is(err, domainerrors.ErrSyncRejected) {
		t.Fatalf("expected rejection for missing email, got %v", err)
	}
	err = collaborator.UpsertCompanyRecord(context.Background(), ports.CompanyRecord{Domain: "no-name.example"})
	if !errors.Is(err, domainerrors.ErrSyncRejected) {
		t.Fatalf("expected rejection for missing name, got %v", err)
	}
}

func TestCollaboratorInjectedFailuresAreTransient(t *testing.T) {
	collaborator := NewCollaborator()
	collaborator.SetFailures(1)
	ctx := context.Background()

	err := collaborator.UpsertContact(ctx, ports.Contact{Email: "jane@example.com"})
	if err == nil || errors.Is(err, domainerrors.ErrSyncRejected) {
		t.Fatalf("expected transient failure, got %v", err)
	}
	if err := collaborator.UpsertContact(ctx, ports.Contact{Email: "jane@example.com"}); err != nil {
		t.Fatalf("expected recovery after failure budget, got %v", err)
	}
}
