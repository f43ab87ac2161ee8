package entities

import (
	"strings"
	"time"
)

// Vote is one ballot in the append-only ledger. VoterEmail is stored
// normalized; the (voter email, subcategory) pair is unique.
type Vote struct {
	VoteID        string
	NominationID  string
	SubcategoryID string
	VoterEmail    string
	VoterName     string
	Country       string
	CreatedAt     time.Time
}

// NormalizeEmail lowercases and trims so duplicate detection is not defeated
// by casing or whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TallyEntry is one row of the computed standings for a subcategory.
// Total is always RealVotes + AdditionalVotes; it is derived at read time and
// never stored.
type TallyEntry struct {
	NominationID    string
	NomineeID       string
	NomineeName     string
	RealVotes       int
	AdditionalVotes int
	Total           int
	Rank            int
	ApprovedAt      time.Time
}
