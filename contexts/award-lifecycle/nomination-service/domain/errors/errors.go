package errors

import "errors"

var (
	ErrInvalidNominationInput = errors.New("invalid nomination input")
	ErrNominationsClosed      = errors.New("nominations are closed")
	ErrDuplicateNomination    = errors.New("nominee already has an active nomination in this subcategory")
	ErrNominationNotFound     = errors.New("nomination not found")
	ErrNomineeNotFound        = errors.New("nominee not found")
	ErrInvalidStateTransition = errors.New("invalid nomination state transition")
	ErrSlugTaken              = errors.New("live slug already taken")
	ErrInvalidAdditionalVotes = errors.New("additional votes must be zero or positive")
	ErrUnauthorizedActor      = errors.New("actor is not authorized")
	ErrInvalidOverrideState   = errors.New("invalid override target state")
)
