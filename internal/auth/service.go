// Package auth issues and verifies bearer tokens and owns the
// registration and login flows over the credential store.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/models"
	"github.com/electrodrive/catalog-api/internal/store"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

const minPasswordLength = 6

// Service issues and verifies tokens and manages user accounts.
// It holds no per-request mutable state and is safe for concurrent use.
type Service struct {
	users    store.Users
	secret   string
	issuer   string
	tokenTTL time.Duration
	logger   *logrus.Logger
}

func NewService(users store.Users, cfg *config.JWTConfig, logger *logrus.Logger) *Service {
	return &Service{
		users:    users,
		secret:   cfg.Secret,
		issuer:   cfg.Issuer,
		tokenTTL: cfg.TTL,
		logger:   logger,
	}
}

func validateCredentials(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.New(apperrors.CodeBadRequest, "please provide a username")
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return apperrors.New(apperrors.CodeBadRequest, "please provide a valid email")
	}
	if len(password) < minPasswordLength {
		return apperrors.Newf(apperrors.CodeBadRequest, "password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (s *Service) createUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	if err := validateCredentials(username, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "failed to process password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User created")

	return user, nil
}

// Register creates a user-role account and issues a token.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	user, err := s.createUser(ctx, username, email, password, models.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user, time.Now())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CreateAdmin creates an admin-role account. Role gating is the access
// gate's responsibility, not this service's.
func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createUser(ctx, username, email, password, models.RoleAdmin)
}

// Login authenticates by email and password. An unknown email and a
// wrong password fail with the same message so neither is leaked.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	invalid := apperrors.New(apperrors.CodeUnauthenticated, "invalid credentials")

	if email == "" || password == "" {
		return nil, "", apperrors.New(apperrors.CodeBadRequest, "please provide an email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", invalid
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", invalid
	}

	token, err := s.issueToken(user, time.Now())
	if err != nil {
		return nil, "", err
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")

	return user, token, nil
}

// Verify checks the token and re-resolves its subject against the live
// credential store. A token is a claim, not a cache: role changes and
// account removal take effect on the next verification.
func (s *Service) Verify(ctx context.Context, tokenString string) (*models.User, error) {
	sub, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, sub)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
		}
		return nil, err
	}

	return user, nil
}

// Logout is a stateless acknowledgment; the client discards its token.
func (s *Service) Logout() {}
