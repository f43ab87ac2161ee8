package events

import "time"

// Sync payload snapshots carried by outbox entries. Field sets align with the
// contact/record shapes the CRM collaborator expects; keep them flat so the
// dispatcher never reads domain tables during delivery.

type NominatorSyncPayload struct {
	NominatorID string    `json:"nominator_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Company     string    `json:"company"`
	LinkedInURL string    `json:"linkedin_url"`
	Country     string    `json:"country"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type NomineeSyncPayload struct {
	NomineeID     string    `json:"nominee_id"`
	Kind          string    `json:"kind"`
	DisplayName   string    `json:"display_name"`
	ContactEmail  string    `json:"contact_email"`
	CompanyName   string    `json:"company_name"`
	CompanyDomain string    `json:"company_domain"`
	LiveURL       string    `json:"live_url"`
	SubcategoryID string    `json:"subcategory_id"`
	ApprovedAt    time.Time `json:"approved_at"`
}

type VoterSyncPayload struct {
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Country       string    `json:"country"`
	SubcategoryID string    `json:"subcategory_id"`
	NominationID  string    `json:"nomination_id"`
	VotedAt       time.Time `json:"voted_at"`
}
