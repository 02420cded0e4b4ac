package auth

import (
	"net/http"
	"strings"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// ContextKeyUser is the key for the loaded user in gin context
	ContextKeyUser = "current_user"
	// ContextKeyActor is the key for the request actor in gin context
	ContextKeyActor = "actor"
)

// RequireAuth validates the bearer token, loads the user (with role)
// and bumps their last-seen timestamp. Requests without a valid token
// get 401.
func RequireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromRequest(c, db)
		if !ok {
			c.Abort()
			return
		}

		user.Ping(db)
		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyActor, Authenticated{User: user})
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present and falls
// back to the anonymous actor otherwise. It never rejects a request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyActor, Anonymous{})

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		tokenString, ok := bearerToken(header)
		if !ok {
			c.Next()
			return
		}
		claims, err := ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.Preload("Role").First(&user, claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		user.Ping(db)
		c.Set(ContextKeyUser, &user)
		c.Set(ContextKeyActor, Authenticated{User: &user})
		c.Next()
	}
}

// RequirePermission checks the actor's capability bits. Runs after
// RequireAuth or OptionalAuth.
func RequirePermission(p models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Can(p) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin checks for the administer bit. Runs after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(models.PermissionAdminister)
}

// CurrentUser returns the loaded user from the gin context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// ActorFrom returns the request actor, anonymous when nothing was set.
func ActorFrom(c *gin.Context) Actor {
	v, exists := c.Get(ContextKeyActor)
	if !exists {
		return Anonymous{}
	}
	actor, ok := v.(Actor)
	if !ok {
		return Anonymous{}
	}
	return actor
}

func userFromRequest(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return nil, false
	}

	tokenString, ok := bearerToken(header)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return nil, false
	}

	claims, err := ValidateToken(tokenString)
	if err != nil {
		if err == ErrExpiredToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		}
		return nil, false
	}

	var user models.User
	if err := db.Preload("Role").First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return nil, false
	}

	return &user, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
