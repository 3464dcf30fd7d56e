package actor

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrEmptyActorID   = errors.New("actor id cannot be empty")
	ErrActorIDTooLong = errors.New("actor id is too long (max 255 characters)")
)

const MaxActorIDLength = 255

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Actor is the identity supplied by the hosting auth layer. The id is opaque.
type Actor struct {
	id   string
	role Role
}

func New(id string, role Role) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, ErrEmptyActorID
	}
	if len(id) > MaxActorIDLength {
		return Actor{}, ErrActorIDTooLong
	}
	if !role.IsValid() {
		return Actor{}, ErrInvalidRole
	}
	return Actor{id: id, role: role}, nil
}

func (a Actor) ID() string    { return a.id }
func (a Actor) Role() Role    { return a.role }
func (a Actor) IsAdmin() bool { return a.role == RoleAdmin }

// CanManage reports whether the actor may change a reservation owned by requester.
func (a Actor) CanManage(requester string) bool {
	return a.IsAdmin() || a.id == requester
}
