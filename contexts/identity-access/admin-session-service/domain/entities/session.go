package entities

import "time"

// Principal is the verified identity attached to admin requests.
type Principal struct {
	ActorID string
	Role    string
}

// Session is an issued admin token and its expiry.
type Session struct {
	Token     string
	ActorID   string
	ExpiresAt time.Time
}
