package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"room-booking/internal/domain/actor"
	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateReservationInput struct {
	RoomID uuid.UUID
	Start  time.Time
	End    time.Time
	Title  string
	// Backfill asks to admit a window that has already started. Admin only.
	Backfill bool
	// IdempotencyKey, when set, makes a retried create return the first result.
	IdempotencyKey *uuid.UUID
}

type RescheduleInput struct {
	Start    time.Time
	End      time.Time
	Backfill bool
}

//go:generate mockgen -destination=../../../tests/mock/commands/commands.go -package=commandsmock room-booking/internal/usecase/commands ReservationCommands,RoomCommands

type ReservationCommands interface {
	Create(ctx context.Context, input CreateReservationInput, by actor.Actor) (*reservation.Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID, by actor.Actor) (*reservation.Reservation, error)
	Reschedule(ctx context.Context, id uuid.UUID, input RescheduleInput, by actor.Actor) (*reservation.Reservation, error)
}

type reservationCommandsImpl struct {
	bookings    shared.BookingStore
	rooms       shared.RoomStore
	idempotency shared.IdempotencyStore
	engine      *availability.Engine
	clock       clock.Clock
	policy      Policy
	effects     sideEffects
	logger      *slog.Logger
}

func NewReservationCommands(
	bookings shared.BookingStore,
	rooms shared.RoomStore,
	idempotency shared.IdempotencyStore,
	engine *availability.Engine,
	cache shared.CalendarCache,
	publisher shared.EventPublisher,
	clk clock.Clock,
	policy Policy,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		bookings:    bookings,
		rooms:       rooms,
		idempotency: idempotency,
		engine:      engine,
		clock:       clk,
		policy:      policy,
		effects: sideEffects{
			cache:     cache,
			publisher: publisher,
			logger:    logger,
		},
		logger: logger,
	}
}

func (c *reservationCommandsImpl) Create(ctx context.Context, input CreateReservationInput, by actor.Actor) (*reservation.Reservation, error) {
	window, err := reservation.NewTimeWindow(input.Start, input.End)
	if err != nil {
		return nil, markDomainErr(err)
	}
	title, err := reservation.NewTitle(input.Title)
	if err != nil {
		return nil, markDomainErr(err)
	}
	allowPast, err := c.allowBackfill(input.Backfill, by)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	res, err := reservation.NewReservation(reservation.NewParams{
		RoomID:         input.RoomID,
		Window:         window,
		Requester:      by.ID(),
		Title:          title,
		AllowPastStart: allowPast,
	}, now)
	if err != nil {
		return nil, markDomainErr(err)
	}

	if _, err := c.rooms.Get(ctx, input.RoomID); err != nil {
		return nil, markStoreErr(err, errs.ErrRoomNotFound)
	}

	if input.IdempotencyKey == nil {
		return c.insert(ctx, res, by, now)
	}

	key := *input.IdempotencyKey
	replay, err := c.claimIdempotencyKey(ctx, key, input, by, now)
	if err != nil || replay != nil {
		return replay, err
	}
	saved, err := c.insert(ctx, res, by, now)
	if err != nil {
		// Released even when the client has gone away, or retries see it in flight until expiry.
		if relErr := c.idempotency.Release(context.WithoutCancel(ctx), key, by.ID()); relErr != nil {
			c.logger.WarnContext(ctx, "idempotency key release failed",
				"idempotency_key", key.String(),
				"error", relErr.Error())
		}
		return nil, err
	}
	if err := c.idempotency.Complete(ctx, key, by.ID(), saved.ID()); err != nil {
		// The booking stands; a retry with this key will see it in flight until expiry.
		c.logger.WarnContext(ctx, "idempotency key completion failed",
			"idempotency_key", key.String(),
			"reservation_id", saved.ID().String(),
			"error", err.Error())
	}
	return saved, nil
}

func (c *reservationCommandsImpl) insert(ctx context.Context, res *reservation.Reservation, by actor.Actor, now time.Time) (*reservation.Reservation, error) {
	saved, err := c.bookings.InsertIfAvailable(ctx, res, availability.ConflictCheck())
	if err != nil {
		return nil, markStoreErr(err, errs.ErrRoomNotFound)
	}

	c.logger.InfoContext(ctx, "reservation confirmed",
		"reservation_id", saved.ID().String(),
		"room_id", saved.RoomID().String(),
		"window", saved.Window().String(),
		"requester", saved.Requester())
	c.effects.reservationChanged(ctx, shared.EventReservationCreated, saved, by.ID(), now)
	return saved, nil
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, by actor.Actor) (*reservation.Reservation, error) {
	res, err := c.bookings.Get(ctx, id)
	if err != nil {
		return nil, markStoreErr(err, errs.ErrReservationNotFound)
	}
	if !by.CanManage(res.Requester()) {
		return nil, errs.Mark(errs.New("only the requester or an administrator may cancel"), errs.ErrForbidden)
	}

	now := c.clock.Now()
	if err := res.Cancel(now); err != nil {
		return nil, markDomainErr(err)
	}
	if err := c.bookings.Update(ctx, res); err != nil {
		// Another request cancelled it between our read and write.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrAlreadyCancelled)
		}
		return nil, markStoreErr(err, errs.ErrReservationNotFound)
	}

	c.logger.InfoContext(ctx, "reservation cancelled",
		"reservation_id", res.ID().String(),
		"room_id", res.RoomID().String(),
		"actor", by.ID())
	c.effects.reservationChanged(ctx, shared.EventReservationCancelled, res, by.ID(), now)
	return res, nil
}

func (c *reservationCommandsImpl) Reschedule(ctx context.Context, id uuid.UUID, input RescheduleInput, by actor.Actor) (*reservation.Reservation, error) {
	window, err := reservation.NewTimeWindow(input.Start, input.End)
	if err != nil {
		return nil, markDomainErr(err)
	}
	allowPast, err := c.allowBackfill(input.Backfill, by)
	if err != nil {
		return nil, err
	}

	res, err := c.bookings.Get(ctx, id)
	if err != nil {
		return nil, markStoreErr(err, errs.ErrReservationNotFound)
	}
	if !by.CanManage(res.Requester()) {
		return nil, errs.Mark(errs.New("only the requester or an administrator may reschedule"), errs.ErrForbidden)
	}

	now := c.clock.Now()
	if err := res.Reschedule(window, now, allowPast); err != nil {
		return nil, markDomainErr(err)
	}

	// Fast rejection; the atomic update below still decides.
	resID := res.ID()
	if blocking, err := c.engine.Blocking(ctx, res.RoomID(), window, &resID); err == nil && len(blocking) > 0 {
		return nil, errs.Mark(reservation.NewConflictError(res.RoomID(), window, blocking), errs.ErrSchedulingConflict)
	}

	saved, err := c.bookings.UpdateIfAvailable(ctx, res, availability.ConflictCheck())
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrAlreadyCancelled)
		}
		return nil, markStoreErr(err, errs.ErrReservationNotFound)
	}

	c.logger.InfoContext(ctx, "reservation rescheduled",
		"reservation_id", saved.ID().String(),
		"room_id", saved.RoomID().String(),
		"window", saved.Window().String(),
		"actor", by.ID())
	c.effects.reservationChanged(ctx, shared.EventReservationRescheduled, saved, by.ID(), now)
	return saved, nil
}

// claimIdempotencyKey returns the reservation of an earlier completed request
// with the same key, or nil once the key is claimed for this one.
func (c *reservationCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	key uuid.UUID,
	input CreateReservationInput,
	by actor.Actor,
	now time.Time,
) (*reservation.Reservation, error) {
	hash := requestHash(input)
	existing, claimed, err := c.idempotency.Claim(ctx, shared.IdempotencyRecord{
		Key:         key,
		Requester:   by.ID(),
		RequestHash: hash,
		ExpiresAt:   now.Add(c.policy.IdempotencyTTL),
	}, now)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrIdempotencyKeyInFlight)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if claimed {
		return nil, nil
	}

	if existing.Status != shared.IdempotencyCompleted || existing.ReservationID == nil {
		return nil, errs.Mark(errs.Newf("idempotency key %s in flight", key), errs.ErrIdempotencyKeyInFlight)
	}
	if existing.RequestHash != hash {
		return nil, errs.Mark(errs.Newf("idempotency key %s reused", key), errs.ErrIdempotencyKeyReused)
	}

	res, err := c.bookings.Get(ctx, *existing.ReservationID)
	if err != nil {
		return nil, markStoreErr(err, errs.ErrReservationNotFound)
	}
	c.logger.InfoContext(ctx, "reservation create replayed",
		"idempotency_key", key.String(),
		"reservation_id", res.ID().String())
	return res, nil
}

func (c *reservationCommandsImpl) allowBackfill(requested bool, by actor.Actor) (bool, error) {
	if !requested {
		return false, nil
	}
	if !by.IsAdmin() || !c.policy.AllowAdminBackfill {
		return false, errs.Mark(errs.New("backfill requires an administrator"), errs.ErrForbidden)
	}
	return true, nil
}

// requestHash fingerprints the create request so a reused key can be told
// apart from a retry. Times are normalized to UTC.
func requestHash(input CreateReservationInput) string {
	data, _ := json.Marshal(struct {
		RoomID   uuid.UUID `json:"room_id"`
		Start    time.Time `json:"start"`
		End      time.Time `json:"end"`
		Title    string    `json:"title"`
		Backfill bool      `json:"backfill"`
	}{
		RoomID:   input.RoomID,
		Start:    input.Start.UTC(),
		End:      input.End.UTC(),
		Title:    input.Title,
		Backfill: input.Backfill,
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
