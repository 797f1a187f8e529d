package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"classpoints/internal/model"
	"classpoints/internal/repository"
	"classpoints/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthMiddleware struct {
	users    repository.UserRepository
	sessions session.Store
	secret   string
}

func NewAuthMiddleware(users repository.UserRepository, sessions session.Store, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		users:    users,
		sessions: sessions,
		secret:   secret,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		// A deleted session record means the login was revoked (logout or
		// access denial), even if the token itself has not expired yet.
		if m.sessions.Enabled() {
			if _, err := m.sessions.Get(c.Request.Context(), claims.ID); err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.Subject)
		c.Set("token_id", claims.ID)
		c.Next()
	}
}

// RequireRole loads the profile fresh from the database on every request, so
// edits made elsewhere take effect immediately and no stale session data is
// trusted. Denial clears the session record before rejecting.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID.(string))
		if err != nil {
			m.clearSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user profile not found"})
			c.Abort()
			return
		}

		if user.Role != role {
			m.clearSession(c)
			c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s access required", role)})
			c.Abort()
			return
		}

		m.refreshSession(c, user)

		c.Set("user", user)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(model.RoleAdmin)
}

func (m *AuthMiddleware) RequireSupervisor() gin.HandlerFunc {
	return m.RequireRole(model.RoleSupervisor)
}

func (m *AuthMiddleware) clearSession(c *gin.Context) {
	tokenID := c.GetString("token_id")
	if tokenID == "" {
		return
	}
	_ = m.sessions.Delete(c.Request.Context(), tokenID)
}

func (m *AuthMiddleware) refreshSession(c *gin.Context, user *model.User) {
	tokenID := c.GetString("token_id")
	if tokenID == "" {
		return
	}
	_ = m.sessions.Refresh(c.Request.Context(), tokenID, session.Session{
		UserID: user.ID.String(),
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
	})
}
