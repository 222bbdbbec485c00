package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/blob"
	"github.com/electrodrive/catalog-api/internal/catalog"
	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/middleware"
	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store/memory"
)

// fakeObjectClient records S3 calls instead of performing them.
type fakeObjectClient struct {
	putCalls    []s3.PutObjectInput
	deleteCalls []s3.DeleteObjectInput
	putErr      error
}

func (f *fakeObjectClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putCalls = append(f.putCalls, *params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectClient) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteCalls = append(f.deleteCalls, *params)
	return &s3.DeleteObjectOutput{}, nil
}

type fixture struct {
	app     *fiber.App
	authSvc *auth.Service
	users   *memory.UserStore
	motors  *memory.MotorStore
	objects *fakeObjectClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "catalog-api", TTL: time.Hour}
	cfg.S3 = config.S3Config{Bucket: "catalog-images", Region: "eu-central-1"}
	cfg.Observability.MetricsPath = "/metrics"

	users := memory.NewUserStore()
	motors := memory.NewMotorStore()
	objects := &fakeObjectClient{}

	authSvc := auth.NewService(users, &cfg.JWT, logger)
	catalogSvc := catalog.NewService(motors, logger)
	blobStore := blob.NewStoreWithClient(objects, &cfg.S3, logger)

	manager, err := middleware.NewManager(cfg, authSvc, logger)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   "internal server error",
			})
		},
	})

	Setup(app, cfg, logger, manager, Handlers{
		Auth:   NewAuthHandler(authSvc, logger),
		Motors: NewMotorHandler(catalogSvc, logger),
		Upload: NewUploadHandler(blobStore, logger),
	}, users)

	return &fixture{app: app, authSvc: authSvc, users: users, motors: motors, objects: objects}
}

// do sends a JSON request and decodes the JSON response.
func (f *fixture) do(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// tokenWithRole registers an account and rewrites its stored role, then
// logs in again so the session carries the requested role.
func (f *fixture) tokenWithRole(t *testing.T, username string, role models.Role) string {
	t.Helper()
	ctx := context.Background()

	user, token, err := f.authSvc.Register(ctx, username, username+"@example.com", "secret123")
	require.NoError(t, err)

	if role != models.RoleUser {
		f.users.Delete(user.ID)
		user.Role = role
		require.NoError(t, f.users.Create(ctx, user))
		_, token, err = f.authSvc.Login(ctx, user.Email, "secret123")
		require.NoError(t, err)
	}
	return token
}

func motorPayload(name string, power float64) map[string]any {
	return map[string]any{
		"name":        name,
		"model":       "M-" + name,
		"description": "test motor",
		"power":       power,
		"voltage":     220,
		"current":     10,
		"speed":       1500,
		"weight":      20,
		"dimensions":  map[string]any{"length": 100, "width": 100, "height": 100},
		"images":      []string{"https://example.com/m.jpg"},
		"available":   true,
	}
}
