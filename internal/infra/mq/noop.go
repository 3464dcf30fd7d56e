package mq

import (
	"context"

	"room-booking/internal/usecase/shared"
)

// Noop drops every event. Used when AMQP is disabled.
type Noop struct{}

var _ shared.EventPublisher = Noop{}

func (Noop) Publish(context.Context, shared.ReservationEvent) error {
	return nil
}
