package auth

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store/memory"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *memory.UserStore) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	users := memory.NewUserStore()
	svc := NewService(users, &config.JWTConfig{
		Secret: "test-secret",
		Issuer: "catalog-api",
		TTL:    time.Hour,
	}, logger)

	return svc, users
}

func TestRegisterIssuesResolvableToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, user.Role)

	// the token's subject must resolve back to the same identity
	verified, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, models.RoleUser, verified.Role)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice2", "alice@example.com", "secret456")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "", "alice@example.com", "secret123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadRequest))

	_, _, err = svc.Register(ctx, "alice", "not-an-email", "secret123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadRequest))

	_, _, err = svc.Register(ctx, "alice", "alice@example.com", "short")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadRequest))
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, _, unknownEmailErr := svc.Login(ctx, "bob@example.com", "secret123")
	_, _, wrongPasswordErr := svc.Login(ctx, "alice@example.com", "wrong-password")

	require.Error(t, unknownEmailErr)
	require.Error(t, wrongPasswordErr)
	assert.True(t, apperrors.IsUnauthenticated(unknownEmailErr))
	assert.True(t, apperrors.IsUnauthenticated(wrongPasswordErr))
	// indistinguishable error content
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
}

func TestLoginMissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadRequest))
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)
}

func TestVerifyRejectsGarbageAndForeignTokens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "not-a-token")
	assert.True(t, apperrors.IsUnauthenticated(err))

	// token signed with a different secret
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	other := NewService(memory.NewUserStore(), &config.JWTConfig{
		Secret: "other-secret",
		Issuer: "catalog-api",
		TTL:    time.Hour,
	}, logger)
	_, foreign, err := other.Register(ctx, "mallory", "mallory@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, foreign)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	expired, err := svc.issueToken(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = svc.Verify(ctx, expired)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestVerifyAfterAccountRemoval(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	// the token still validates cryptographically, but the subject is gone
	users.Delete(user.ID)

	_, err = svc.Verify(ctx, token)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestCreateAdminAssignsAdminRole(t *testing.T) {
	svc, _ := newTestService(t)

	admin, err := svc.CreateAdmin(context.Background(), "root", "root@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}
