package room

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoomName   = errors.New("room name cannot be empty")
	ErrRoomNameTooLong = errors.New("room name is too long (max 255 characters)")
	ErrInvalidCapacity = errors.New("room capacity must be positive")
	ErrCapacityTooHigh = errors.New("room capacity is too high (max 100000)")
)

const (
	MaxRoomNameLength = 255
	MaxCapacity       = 100000
)

type Room struct {
	id        uuid.UUID
	name      string
	capacity  int
	features  Features
	createdAt time.Time
	updatedAt time.Time
}

func NewRoom(name string, capacity int, features []string, now time.Time) (*Room, error) {
	if err := validateRoomName(name); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if capacity > MaxCapacity {
		return nil, ErrCapacityTooHigh
	}

	feats, err := NewFeatures(features)
	if err != nil {
		return nil, err
	}

	return &Room{
		id:        uuid.New(),
		name:      strings.TrimSpace(name),
		capacity:  capacity,
		features:  feats,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructRoom(id uuid.UUID, name string, capacity int, features []string, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id:        id,
		name:      name,
		capacity:  capacity,
		features:  Features{values: slices.Sorted(slices.Values(features))},
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func validateRoomName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRoomName
	}
	if len(name) > MaxRoomNameLength {
		return ErrRoomNameTooLong
	}
	return nil
}

func (r *Room) Fits(attendees int) bool {
	return attendees <= r.capacity
}

func (r *Room) ID() uuid.UUID        { return r.id }
func (r *Room) Name() string         { return r.name }
func (r *Room) Capacity() int        { return r.capacity }
func (r *Room) Features() Features   { return r.features }
func (r *Room) CreatedAt() time.Time { return r.createdAt }
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }
