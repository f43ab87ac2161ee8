package errors

import "errors"

var (
	ErrInvalidVoteInput      = errors.New("vote input is invalid")
	ErrVotingClosed          = errors.New("voting window is closed")
	ErrDuplicateVote         = errors.New("voter already voted in this subcategory")
	ErrNominationNotFound    = errors.New("nomination not found")
	ErrNominationNotApproved = errors.New("nomination is not approved for voting")
)
