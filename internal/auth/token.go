package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/electrodrive/catalog-api/internal/models"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

// issueToken signs an HS256 token binding to exactly one user identity.
func (s *Service) issueToken(user *models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
		"iss":   s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternalError, "failed to sign token", err)
	}

	return signed, nil
}

// parseToken verifies the signature and standard claims and returns the
// subject user id. The caller still resolves the subject against the
// live credential store.
func (s *Service) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", apperrors.Wrap(apperrors.CodeUnauthenticated, "authentication required", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}

	return sub, nil
}
