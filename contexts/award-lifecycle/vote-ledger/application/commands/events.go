package commands

import (
	"encoding/json"
	"time"

	"accolade/internal/shared/outbox"
)

// newSyncEntry snapshots a payload into a pending outbox entry. The entry is
// handed to the repository so it commits with the domain write.
func newSyncEntry(entryID string, eventType outbox.EventType, payload any, now time.Time) (outbox.Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return outbox.Entry{}, err
	}
	return outbox.Entry{
		EntryID:       entryID,
		EventType:     eventType,
		Payload:       raw,
		Status:        outbox.StatusPending,
		NextAttemptAt: now.UTC(),
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}, nil
}
