package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitNominationRequest struct {
	Nominator SubmitNominatorPayload `json:"nominator"`
	Nominee   SubmitNomineePayload   `json:"nominee"`
	Category  SubmitCategoryPayload  `json:"category"`
}

type SubmitNominatorPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Company     string `json:"company,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Country     string `json:"country,omitempty"`
}

type SubmitNomineePayload struct {
	Kind          string `json:"kind"`
	DisplayName   string `json:"display_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	AssetURL      string `json:"asset_url"`
	Pitch         string `json:"pitch"`
}

type SubmitCategoryPayload struct {
	CategoryGroupID string `json:"category_group_id"`
	SubcategoryID   string `json:"subcategory_id"`
}

type NominationResponse struct {
	NominationID    string `json:"nomination_id"`
	NominatorID     string `json:"nominator_id"`
	NomineeID       string `json:"nominee_id"`
	CategoryGroupID string `json:"category_group_id"`
	SubcategoryID   string `json:"subcategory_id"`
	State           string `json:"state"`
	AdditionalVotes int    `json:"additional_votes"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ApprovedAt      string `json:"approved_at,omitempty"`
	RejectedAt      string `json:"rejected_at,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type NominationDetailResponse struct {
	Nomination NominationResponse `json:"nomination"`
	Nominee    NomineeResponse    `json:"nominee"`
}

type NomineeResponse struct {
	NomineeID     string `json:"nominee_id"`
	Kind          string `json:"kind"`
	DisplayName   string `json:"display_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	AssetURL      string `json:"asset_url"`
	Pitch         string `json:"pitch"`
	LiveSlug      string `json:"live_slug,omitempty"`
	LiveURL       string `json:"live_url,omitempty"`
}

type NominationListResponse struct {
	Items []NominationResponse `json:"items"`
}

type ApproveNominationRequest struct {
	LiveURLOverride string `json:"live_url_override,omitempty"`
}

type ApproveNominationResponse struct {
	NominationID string `json:"nomination_id"`
	State        string `json:"state"`
	LiveSlug     string `json:"live_slug"`
	LiveURL      string `json:"live_url"`
	ApprovedAt   string `json:"approved_at"`
}

type RejectNominationRequest struct {
	Reason string `json:"reason,omitempty"`
}

type AdjustVotesRequest struct {
	AdditionalVotes int `json:"additional_votes"`
}

type ForceStateRequest struct {
	State  string `json:"state"`
	Reason string `json:"reason"`
}
