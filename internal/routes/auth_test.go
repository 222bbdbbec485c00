package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMeFlow(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	data := body["data"].(map[string]any)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "user", data["role"])
	// the password never appears in any projection
	_, hasPassword := data["password"]
	assert.False(t, hasPassword)

	status, body = f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := body["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotEmpty(t, me["createdAt"])

	status, body = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	payload := map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	}
	status, _ := f.do(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, status)

	status, body := f.do(t, http.MethodPost, "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "a user with this email already exists", body["error"])
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	f.tokenWithRole(t, "alice", "user")

	status, body := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	wrongPassword := body["error"]

	status, body = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	// same message either way
	assert.Equal(t, wrongPassword, body["error"])
}

func TestMeRequiresToken(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "authentication required", body["error"])
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	token := f.tokenWithRole(t, "alice", "user")

	status, body := f.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	// stateless: the token still verifies until it expires
	status, _ = f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCreateAdminGating(t *testing.T) {
	f := newFixture(t)

	userToken := f.tokenWithRole(t, "plain", "user")
	adminToken := f.tokenWithRole(t, "root", "admin")

	payload := map[string]any{
		"username": "second",
		"email":    "second@example.com",
		"password": "secret123",
	}

	status, _ := f.do(t, http.MethodPost, "/api/v1/auth/create-admin", "", payload)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := f.do(t, http.MethodPost, "/api/v1/auth/create-admin", userToken, payload)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "role user is not allowed to access this resource", body["error"])

	status, body = f.do(t, http.MethodPost, "/api/v1/auth/create-admin", adminToken, payload)
	require.Equal(t, http.StatusCreated, status)
	created := body["data"].(map[string]any)
	assert.Equal(t, "admin", created["role"])
}

func TestUnknownRouteReturns404(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}
