package middleware

import (
	"errors"
	"net/http"
	"strings"

	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware on success.
const (
	ContextUser  = "user"
	ContextToken = "token"
)

// Rejection kinds, one per way a request can fail authorization.
// Each maps to a fixed HTTP status in AuthMiddleware.
var (
	ErrNoToken      = errors.New("authorization header with bearer token required")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrUserNotFound = errors.New("user no longer exists")
	ErrStoreFailure = errors.New("authorization check failed")
)

// Guard authorizes requests: it verifies the bearer token against the
// blacklist, its signature and expiry, and resolves the subject user.
type Guard struct {
	tokens    *service.TokenService
	blacklist repository.TokenBlacklistRepository
	users     repository.UserRepository
	logger    *zap.Logger
}

func NewGuard(tokens *service.TokenService, blacklist repository.TokenBlacklistRepository,
	users repository.UserRepository, logger *zap.Logger) *Guard {
	return &Guard{tokens: tokens, blacklist: blacklist, users: users, logger: logger}
}

// Authorize runs the ordered checks and returns the resolved user.
// The blacklist lookup happens before signature verification, so a
// revoked but otherwise valid token is never accepted.
func (g *Guard) Authorize(rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, ErrNoToken
	}

	revoked, err := g.blacklist.IsBlacklisted(rawToken)
	if err != nil {
		g.logger.Error("Blacklist lookup failed", zap.Error(err))
		return nil, ErrStoreFailure
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := g.tokens.ParseToken(rawToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	user, err := g.users.GetUserByID(claims.UserID)
	if err != nil {
		g.logger.Error("User lookup failed", zap.Error(err))
		return nil, ErrStoreFailure
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(guard *Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c.GetHeader("Authorization"))

		user, err := guard.Authorize(tokenString)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrStoreFailure) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextToken, tokenString)

		c.Next()
	}
}

// AdminOnly restricts a route to admin users. It must be composed
// after AuthMiddleware; it only inspects the resolved user.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized as admin"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
