package postgresadapter

import (
	"context"
	"time"

	"accolade/contexts/award-lifecycle/nomination-service/ports"

	"github.com/google/uuid"
)

// UUIDGenerator produces random identifiers for nominations and outbox
// entries.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock reads wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// StaticSettings serves campaign settings resolved once at startup.
type StaticSettings struct {
	Settings ports.Settings
}

func (s StaticSettings) Current(_ context.Context) (ports.Settings, error) {
	return s.Settings, nil
}

var (
	_ ports.IDGenerator    = UUIDGenerator{}
	_ ports.Clock          = SystemClock{}
	_ ports.SettingsSource = StaticSettings{}
)
