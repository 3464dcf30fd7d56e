package reservation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ConflictError names the confirmed reservations that block a window.
// Blocking may be empty when the store only learned of the clash from a
// constraint violation or exhausted retries.
type ConflictError struct {
	RoomID   uuid.UUID
	Window   TimeWindow
	Blocking []uuid.UUID
}

func (e *ConflictError) Error() string {
	if len(e.Blocking) == 0 {
		return fmt.Sprintf("room %s is not available for %s", e.RoomID, e.Window)
	}
	ids := make([]string, len(e.Blocking))
	for i, id := range e.Blocking {
		ids[i] = id.String()
	}
	return fmt.Sprintf("room %s is not available for %s: blocked by %s", e.RoomID, e.Window, strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrSchedulingConflict
}

func NewConflictError(roomID uuid.UUID, window TimeWindow, blocking []uuid.UUID) *ConflictError {
	return &ConflictError{RoomID: roomID, Window: window, Blocking: blocking}
}
