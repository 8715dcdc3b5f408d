package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/issa-plus/core/internal/models"
	"github.com/issa-plus/core/internal/pkg/jwt"
	"github.com/issa-plus/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	ContextKeyUserID  = "user_id"
	ContextKeyIsAdmin = "is_admin"
)

// Auth returns a middleware that enforces JWT authentication. Tokens issued
// to accounts that were disabled afterwards are refused.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateToken(db, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly requires an authenticated admin account. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not
// block the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validateToken(db, extractToken(c)); err == nil && claims.UserID != "" {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyIsAdmin, claims.IsAdmin)
		}
		c.Next()
	}
}

type authedClaims struct {
	UserID  string
	IsAdmin bool
}

// ValidateToken validates a JWT and returns the authenticated user id.
// Exposed for transports outside gin, e.g. the realtime gateway handshake.
func ValidateToken(db *gorm.DB, rawToken string) (string, error) {
	claims, err := validateToken(db, rawToken)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ValidateAdminToken is ValidateToken restricted to admin accounts.
func ValidateAdminToken(db *gorm.DB, rawToken string) (string, error) {
	claims, err := validateToken(db, rawToken)
	if err != nil {
		return "", err
	}
	if !claims.IsAdmin {
		return "", errors.New("admin access required")
	}
	return claims.UserID, nil
}

func validateToken(db *gorm.DB, rawToken string) (*authedClaims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err
	}

	var user models.UserModel
	if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		return nil, errors.New("account not found")
	}
	if !user.Enabled {
		return nil, errors.New("account disabled")
	}
	return &authedClaims{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// IsAdmin reports whether the authenticated user is an administrator.
func IsAdmin(c *gin.Context) bool {
	v, _ := c.Get(ContextKeyIsAdmin)
	b, _ := v.(bool)
	return b
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
