package errors

import "errors"

var (
	// ErrSyncRejected marks a delivery failure caused by the payload itself.
	// Retrying cannot succeed, so the dispatcher dead-letters these after a
	// much smaller attempt budget than transient faults get.
	ErrSyncRejected = errors.New("sync payload rejected by collaborator")

	ErrEntryNotClaimed  = errors.New("outbox entry not held under this claim")
	ErrUnknownEventType = errors.New("unknown sync event type")
)
