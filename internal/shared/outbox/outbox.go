package outbox

import "time"

// Outbox entries are persisted inside the same DB transaction as the domain
// write that produced them. The sync dispatcher drains pending entries and
// delivers them to the external CRM/email collaborators.

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusDead       Status = "dead"
)

type EventType string

const (
	EventNominatorSync EventType = "nominator_sync"
	EventNomineeSync   EventType = "nominee_sync"
	EventVoterSync     EventType = "voter_sync"
)

// Entry is one pending/attempted external-sync task. Payload is a snapshot of
// the data needed for delivery, never a live reference to domain rows.
type Entry struct {
	EntryID       string
	EventType     EventType
	Payload       []byte
	Status        Status
	AttemptCount  int
	LastError     string
	ClaimToken    string
	NextAttemptAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
