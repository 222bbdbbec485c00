package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/auth"
	"github.com/electrodrive/catalog-api/internal/models"
)

const localsUserKey = "user"

// AuthMiddleware is the access gate: a bearer-token authentication
// stage followed by a declarative role check. Both stages are pure
// functions of the request and the declared requirement; safe across
// concurrent requests.
type AuthMiddleware struct {
	authService *auth.Service
	logger      *logrus.Logger
}

func NewAuthMiddleware(authService *auth.Service, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Authenticate requires a valid bearer token and resolves its subject
// against the live credential store before the request proceeds.
func (a *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return a.unauthorized(c)
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return a.unauthorized(c)
		}

		tokenString := authHeader[len(bearerPrefix):]
		if tokenString == "" {
			return a.unauthorized(c)
		}

		user, err := a.authService.Verify(c.Context(), tokenString)
		if err != nil {
			a.logger.WithError(err).WithField("path", c.Path()).Debug("Token verification failed")
			return a.unauthorized(c)
		}

		c.Locals(localsUserKey, user)

		return c.Next()
	}
}

// RequireRoles checks the authenticated user's role against the
// statically declared permitted set for the operation.
func (a *AuthMiddleware) RequireRoles(roles ...models.Role) fiber.Handler {
	permitted := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		permitted[r] = true
	}

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return a.unauthorized(c)
		}

		if !permitted[user.Role] {
			a.logger.WithFields(logrus.Fields{
				"user_id": user.ID,
				"role":    user.Role,
				"path":    c.Path(),
			}).Warn("Role not permitted")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "role " + string(user.Role) + " is not allowed to access this resource",
			})
		}

		return c.Next()
	}
}

func (a *AuthMiddleware) unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   "authentication required",
	})
}

// GetUser extracts the authenticated user from the request context.
func GetUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(localsUserKey).(*models.User); ok {
		return user
	}
	return nil
}

// GetUserID extracts the authenticated user's id, or "".
func GetUserID(c *fiber.Ctx) string {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return ""
}
