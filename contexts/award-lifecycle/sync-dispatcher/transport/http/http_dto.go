package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OutboxHealthResponse struct {
	Pending                 int   `json:"pending"`
	Processing              int   `json:"processing"`
	Done                    int   `json:"done"`
	Dead                    int   `json:"dead"`
	OldestPendingAgeSeconds int64 `json:"oldest_pending_age_seconds"`
}

type DeadEntryItem struct {
	EntryID      string `json:"entry_id"`
	EventType    string `json:"event_type"`
	AttemptCount int    `json:"attempt_count"`
	LastError    string `json:"last_error"`
	CreatedAt    string `json:"created_at"`
}

type DeadEntriesResponse struct {
	Items []DeadEntryItem `json:"items"`
}
