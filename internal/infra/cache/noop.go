package cache

import (
	"context"

	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Noop is used when Redis is disabled. Every read misses.
type Noop struct{}

var _ shared.CalendarCache = Noop{}

func (Noop) Get(context.Context, uuid.UUID, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, uuid.UUID, string, []byte) error {
	return nil
}

func (Noop) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
