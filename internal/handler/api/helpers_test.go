//go:build unit

package api_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"room-booking/internal/domain/actor"
	"room-booking/internal/handler/middleware"

	"github.com/stretchr/testify/require"
)

const (
	memberToken = "member-token"
	otherToken  = "other-token"
	adminToken  = "admin-token"
)

// stubValidator resolves the fixed test tokens without signing anything.
type stubValidator map[string]actor.Actor

func (v stubValidator) ValidateToken(token string) (actor.Actor, error) {
	a, ok := v[token]
	if !ok {
		return actor.Actor{}, errors.New("unknown token")
	}
	return a, nil
}

func newTestAuth(t *testing.T) *middleware.AuthMiddleware {
	t.Helper()
	must := func(id string, role actor.Role) actor.Actor {
		a, err := actor.New(id, role)
		require.NoError(t, err)
		return a
	}
	return middleware.NewAuthMiddleware(stubValidator{
		memberToken: must("alice", actor.RoleMember),
		otherToken:  must("bob", actor.RoleMember),
		adminToken:  must("root", actor.RoleAdmin),
	})
}

type errorBody struct {
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail map[string]any `json:"detail"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
