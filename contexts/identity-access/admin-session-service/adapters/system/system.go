package system

import (
	"context"
	"time"

	"accolade/contexts/identity-access/admin-session-service/ports"

	"github.com/google/uuid"
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var (
	_ ports.IDGenerator = UUIDGenerator{}
	_ ports.Clock       = SystemClock{}
)
