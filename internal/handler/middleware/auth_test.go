//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"room-booking/internal/domain/actor"
	"room-booking/internal/handler/middleware"
	"room-booking/internal/pkg/cookie"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (actor.Actor, error) {
	args := m.Called(token)
	return args.Get(0).(actor.Actor), args.Error(1)
}

func newActor(t *testing.T, id string, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.New(id, role)
	require.NoError(t, err)
	return a
}

// whoami echoes the resolved actor, or "anonymous".
func whoami(c *gin.Context) {
	a, ok := middleware.GetActor(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, a.ID()+":"+a.Role().String())
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", "good").Return(newActor(t, "alice", actor.RoleMember), nil)
	validator.On("ValidateToken", "bad").Return(actor.Actor{}, errors.New("invalid token"))

	router := gin.New()
	router.GET("/", middleware.NewAuthMiddleware(validator).RequireAuth(), whoami)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "valid bearer token", header: "Bearer good", wantCode: http.StatusOK, wantBody: "alice:member"},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantCode: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.header)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireAuthCookieFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", "from-cookie").Return(newActor(t, "alice", actor.RoleMember), nil)
	validator.On("ValidateToken", "from-header").Return(newActor(t, "bob", actor.RoleMember), nil)

	router := gin.New()
	router.GET("/", middleware.NewAuthMiddleware(validator).RequireAuth(), whoami)

	t.Run("cookie alone authenticates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookie.AccessTokenCookieName, Value: "from-cookie"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice:member", rec.Body.String())
	})

	t.Run("bearer header wins over the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer from-header")
		req.AddCookie(&http.Cookie{Name: cookie.AccessTokenCookieName, Value: "from-cookie"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "bob:member", rec.Body.String())
	})
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", "member").Return(newActor(t, "alice", actor.RoleMember), nil)
	validator.On("ValidateToken", "admin").Return(newActor(t, "root", actor.RoleAdmin), nil)

	auth := middleware.NewAuthMiddleware(validator)
	router := gin.New()
	router.GET("/", auth.RequireAuth(), auth.RequireAdmin(), whoami)

	assert.Equal(t, http.StatusForbidden, serve(router, "Bearer member").Code)

	rec := serve(router, "Bearer admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root:admin", rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := new(MockTokenValidator)
	validator.On("ValidateToken", "good").Return(newActor(t, "alice", actor.RoleMember), nil)
	validator.On("ValidateToken", "bad").Return(actor.Actor{}, errors.New("invalid token"))

	router := gin.New()
	router.GET("/", middleware.NewAuthMiddleware(validator).OptionalAuth(), whoami)

	assert.Equal(t, "anonymous", serve(router, "").Body.String())
	assert.Equal(t, "anonymous", serve(router, "Bearer bad").Body.String())
	assert.Equal(t, "alice:member", serve(router, "Bearer good").Body.String())
}
