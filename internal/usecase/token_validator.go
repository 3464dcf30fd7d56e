package usecase

import (
	"room-booking/internal/domain/actor"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/jwt"
)

// TokenValidator turns a bearer token into the acting identity.
type TokenValidator interface {
	ValidateToken(tokenString string) (actor.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (actor.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return actor.Actor{}, err
	}

	role, err := actor.NewRole(claims.Role)
	if err != nil {
		return actor.Actor{}, errs.Wrap(err, "token role")
	}
	a, err := actor.New(claims.Subject, role)
	if err != nil {
		return actor.Actor{}, errs.Wrap(err, "token subject")
	}
	return a, nil
}
