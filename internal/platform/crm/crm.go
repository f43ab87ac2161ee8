package crm

import (
	"context"
	"errors"
	"strings"
	"sync"

	domainerrors "accolade/contexts/award-lifecycle/sync-dispatcher/domain/errors"
	"accolade/contexts/award-lifecycle/sync-dispatcher/ports"
)

// Collaborator is the in-process stand-in for the external CRM and email
// providers. Upserts are idempotent and keyed the way the real providers key
// them: contacts by email, company records by name. Tests inject transient
// failures or permanent rejections to exercise the dispatcher's retry and
// dead-letter paths.
type Collaborator struct {
	mu sync.RWMutex

	contacts  map[string]ports.Contact
	companies map[string]ports.CompanyRecord
	emails    []ports.Email

	failuresLeft int
	rejectAll    bool
}

func NewCollaborator() *Collaborator {
	return &Collaborator{
		contacts:  make(map[string]ports.Contact),
		companies: make(map[string]ports.CompanyRecord),
	}
}

// SetFailures makes the next n calls fail transiently.
func (c *Collaborator) SetFailures(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failuresLeft = n
}

// SetRejectAll makes every call fail as a payload rejection.
func (c *Collaborator) SetRejectAll(reject bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectAll = reject
}

func (c *Collaborator) Contact(email string) (ports.Contact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	contact, ok := c.contacts[strings.ToLower(strings.TrimSpace(email))]
	return contact, ok
}

func (c *Collaborator) CompanyRecord(name string) (ports.CompanyRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.companies[strings.ToLower(strings.TrimSpace(name))]
	return record, ok
}

func (c *Collaborator) SentEmails() []ports.Email {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ports.Email(nil), c.emails...)
}

func (c *Collaborator) UpsertContact(ctx context.Context, contact ports.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextOutcome(); err != nil {
		return err
	}
	key := strings.ToLower(strings.TrimSpace(contact.Email))
	if key == "" {
		return domainerrors.ErrSyncRejected
	}
	existing, ok := c.contacts[key]
	if ok {
		existing = mergeContact(existing, contact)
	} else {
		existing = contact
		existing.Email = key
	}
	c.contacts[key] = existing
	return nil
}

func (c *Collaborator) UpsertCompanyRecord(ctx context.Context, record ports.CompanyRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextOutcome(); err != nil {
		return err
	}
	key := strings.ToLower(strings.TrimSpace(record.Name))
	if key == "" {
		return domainerrors.ErrSyncRejected
	}
	c.companies[key] = record
	return nil
}

func (c *Collaborator) SendEmail(ctx context.Context, email ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextOutcome(); err != nil {
		return err
	}
	if strings.TrimSpace(email.To) == "" {
		return domainerrors.ErrSyncRejected
	}
	c.emails = append(c.emails, email)
	return nil
}

func (c *Collaborator) nextOutcome() error {
	if c.rejectAll {
		return domainerrors.ErrSyncRejected
	}
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return errors.New("collaborator temporarily unavailable")
	}
	return nil
}

// mergeContact keeps fields already known when an update omits them, so a
// voter sync never wipes data a nomination sync wrote earlier.
func mergeContact(existing, update ports.Contact) ports.Contact {
	if strings.TrimSpace(update.DisplayName) != "" {
		existing.DisplayName = update.DisplayName
	}
	if strings.TrimSpace(update.Company) != "" {
		existing.Company = update.Company
	}
	if strings.TrimSpace(update.LinkedInURL) != "" {
		existing.LinkedInURL = update.LinkedInURL
	}
	if strings.TrimSpace(update.Country) != "" {
		existing.Country = update.Country
	}
	if strings.TrimSpace(update.LiveURL) != "" {
		existing.LiveURL = update.LiveURL
	}
	if strings.TrimSpace(update.Source) != "" {
		existing.Source = update.Source
	}
	return existing
}

var (
	_ ports.CRMGateway  = (*Collaborator)(nil)
	_ ports.EmailSender = (*Collaborator)(nil)
)
