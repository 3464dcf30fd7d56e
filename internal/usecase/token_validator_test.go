//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"room-booking/internal/domain/actor"
	"room-booking/internal/pkg/jwt"
	"room-booking/internal/usecase"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	svc := jwt.NewService("secret", time.Hour)
	v := usecase.NewTokenValidator(svc)

	t.Run("member token", func(t *testing.T) {
		token, err := svc.GenerateToken("alice", actor.RoleMember)
		require.NoError(t, err)

		a, err := v.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", a.ID())
		assert.False(t, a.IsAdmin())
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwt.Claims{
			Role:             "owner",
			RegisteredClaims: jwtlib.RegisteredClaims{Subject: "alice", ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, actor.ErrInvalidRole)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := svc.GenerateToken("", actor.RoleMember)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, actor.ErrEmptyActorID)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := v.ValidateToken("nope")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
