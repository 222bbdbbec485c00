package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store/memory"
)

type gateFixture struct {
	app     *fiber.App
	authSvc *auth.Service
	users   *memory.UserStore
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	users := memory.NewUserStore()
	authSvc := auth.NewService(users, &config.JWTConfig{
		Secret: "test-secret",
		Issuer: "catalog-api",
		TTL:    time.Hour,
	}, logger)

	gate := NewAuthMiddleware(authSvc, logger)

	app := fiber.New()
	app.Get("/protected", gate.Authenticate(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "user_id": GetUserID(c)})
	})
	app.Get("/admin-only", gate.Authenticate(), gate.RequireRoles(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/editorial", gate.Authenticate(), gate.RequireRoles(models.RoleAdmin, models.RoleEditor), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	return &gateFixture{app: app, authSvc: authSvc, users: users}
}

func (f *gateFixture) token(t *testing.T, username string, role models.Role) string {
	t.Helper()

	user, token, err := f.authSvc.Register(context.Background(), username, username+"@example.com", "secret123")
	require.NoError(t, err)

	if role != models.RoleUser {
		// adjust the stored role, then log in again so the token carries it
		f.users.Delete(user.ID)
		user.Role = role
		require.NoError(t, f.users.Create(context.Background(), user))
		_, token, err = f.authSvc.Login(context.Background(), user.Email, "secret123")
		require.NoError(t, err)
	}
	return token
}

func (f *gateFixture) request(t *testing.T, path, token string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp, decoded
}

func TestAuthenticateRejectsMissingAndMalformedTokens(t *testing.T) {
	f := newGateFixture(t)

	resp, body := f.request(t, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "authentication required", body["error"])

	resp, _ = f.request(t, "/protected", "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// wrong scheme
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	raw, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, raw.StatusCode)
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	f := newGateFixture(t)
	token := f.token(t, "alice", models.RoleUser)

	resp, body := f.request(t, "/protected", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["user_id"])
}

func TestRequireRolesForbidsWithRoleInMessage(t *testing.T) {
	f := newGateFixture(t)
	token := f.token(t, "bob", models.RoleUser)

	resp, body := f.request(t, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "role user is not allowed to access this resource", body["error"])
}

func TestRequireRolesPermittedSet(t *testing.T) {
	f := newGateFixture(t)

	editor := f.token(t, "editor", models.RoleEditor)
	admin := f.token(t, "admin", models.RoleAdmin)

	resp, _ := f.request(t, "/editorial", editor)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.request(t, "/admin-only", editor)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.request(t, "/admin-only", admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticateAfterAccountRemoval(t *testing.T) {
	f := newGateFixture(t)

	user, token, err := f.authSvc.Register(context.Background(), "gone", "gone@example.com", "secret123")
	require.NoError(t, err)
	f.users.Delete(user.ID)

	resp, _ := f.request(t, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
