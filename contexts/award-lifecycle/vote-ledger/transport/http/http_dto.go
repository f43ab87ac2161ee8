package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	NominationID string `json:"nomination_id"`
	VoterEmail   string `json:"voter_email"`
	VoterName    string `json:"voter_name,omitempty"`
	Country      string `json:"country,omitempty"`
}

type CastVoteResponse struct {
	VoteID        string `json:"vote_id"`
	NominationID  string `json:"nomination_id"`
	SubcategoryID string `json:"subcategory_id"`
}

// LeaderboardItem is the public standings row. Combined totals only; the
// real/additional split never leaves the admin surface.
type LeaderboardItem struct {
	NominationID string `json:"nomination_id"`
	NomineeName  string `json:"nominee_name"`
	Total        int    `json:"total_votes"`
	Rank         int    `json:"rank"`
}

type LeaderboardResponse struct {
	SubcategoryID string            `json:"subcategory_id"`
	Items         []LeaderboardItem `json:"items"`
}

type TallyItem struct {
	NominationID    string `json:"nomination_id"`
	NomineeName     string `json:"nominee_name"`
	RealVotes       int    `json:"real_votes"`
	AdditionalVotes int    `json:"additional_votes"`
	Total           int    `json:"total_votes"`
	Rank            int    `json:"rank"`
}

type TallyResponse struct {
	SubcategoryID string      `json:"subcategory_id"`
	Items         []TallyItem `json:"items"`
}

// NominationTallyResponse is the admin per-nomination breakdown. No rank;
// a single nomination has no standing without its subcategory peers.
type NominationTallyResponse struct {
	NominationID    string `json:"nomination_id"`
	NomineeName     string `json:"nominee_name"`
	RealVotes       int    `json:"real_votes"`
	AdditionalVotes int    `json:"additional_votes"`
	Total           int    `json:"total_votes"`
}
