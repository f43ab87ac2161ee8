package entities

import (
	"strings"
	"time"
)

type NomineeKind string

const (
	NomineeKindPerson  NomineeKind = "person"
	NomineeKindCompany NomineeKind = "company"
)

type NominationState string

const (
	NominationStateSubmitted NominationState = "submitted"
	NominationStateApproved  NominationState = "approved"
	NominationStateRejected  NominationState = "rejected"
)

// Nominator is the person submitting a nomination. Rows are immutable after
// submission except for explicit admin edits.
type Nominator struct {
	NominatorID string
	Email       string
	DisplayName string
	Company     string
	LinkedInURL string
	Country     string
	CreatedAt   time.Time
}

// Nominee is the person or company being nominated. AssetURL holds the
// headshot (person) or logo (company); Pitch is the public "why vote" text.
type Nominee struct {
	NomineeID     string
	Kind          NomineeKind
	DisplayName   string
	FirstName     string
	LastName      string
	CompanyName   string
	CompanyDomain string
	ContactEmail  string
	AssetURL      string
	Pitch         string
	LiveSlug      string
	LiveURL       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateForSubmit enforces the intake invariant: presentation asset and
// pitch text are mandatory, plus the identity fields for the nominee kind.
func (n Nominee) ValidateForSubmit() bool {
	if strings.TrimSpace(n.AssetURL) == "" || strings.TrimSpace(n.Pitch) == "" {
		return false
	}
	switch n.Kind {
	case NomineeKindPerson:
		return strings.TrimSpace(n.DisplayName) != "" && strings.TrimSpace(n.ContactEmail) != ""
	case NomineeKindCompany:
		return strings.TrimSpace(n.CompanyName) != ""
	default:
		return false
	}
}

// IdentityKey is the stable duplicate-detection key for a nominee: contact
// email for people, normalized company name for companies.
func (n Nominee) IdentityKey() string {
	if n.Kind == NomineeKindCompany {
		return strings.ToLower(strings.TrimSpace(n.CompanyName))
	}
	return strings.ToLower(strings.TrimSpace(n.ContactEmail))
}

// Nomination links a nominator to a nominee within a subcategory and carries
// the lifecycle state. AdditionalVotes is the admin-set overlay added to the
// real vote count; it is stored verbatim, never derived.
type Nomination struct {
	NominationID    string
	NominatorID     string
	NomineeID       string
	NomineeIdentity string
	CategoryGroupID string
	SubcategoryID   string
	State           NominationState
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	AdditionalVotes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the nomination still occupies its nominee+subcategory
// slot for duplicate prevention. Rejected nominations free the slot.
func (n Nomination) Active() bool {
	return n.State != NominationStateRejected
}

// LiveIdentity is the public slug/URL assigned to a nominee on approval.
type LiveIdentity struct {
	Slug string
	URL  string
}

// StateOverrideAudit records an explicit admin force-set of nomination state
// outside the modeled transitions. Overrides bypass invariants and are always
// written together with the state change.
type StateOverrideAudit struct {
	AuditID      string
	NominationID string
	FromState    NominationState
	ToState      NominationState
	ActorID      string
	Reason       string
	CreatedAt    time.Time
}
