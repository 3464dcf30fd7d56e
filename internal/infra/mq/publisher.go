// Package mq publishes reservation events to RabbitMQ.
package mq

import (
	"context"
	"encoding/json"
	"log/slog"

	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends each event to a durable topic exchange, routed by its kind.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *slog.Logger
}

var _ shared.EventPublisher = (*Publisher)(nil)

func NewPublisher(cfg config.AMQPConfig, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "declare exchange %s", cfg.Exchange)
	}

	logger.Info("event publisher connected", "exchange", cfg.Exchange)
	return &Publisher{conn: conn, ch: ch, exchange: cfg.Exchange, logger: logger}, nil
}

func newPublisherWithChannel(ch channel, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event shared.ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "marshal reservation event")
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		MessageId:    event.ReservationID.String() + ":" + string(event.Kind),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, string(event.Kind), false, false, msg); err != nil {
		return errs.Wrapf(err, "publish %s", event.Kind)
	}

	p.logger.DebugContext(ctx, "reservation event published",
		"kind", string(event.Kind),
		"reservation_id", event.ReservationID.String())
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
