package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)

		if !ok || userID == "" {
			apierrors.Unauthorized(c, apierrors.Localized(c, "errors.unauthorized", "", nil))
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		if name, ok := session.Get(constants.ContextKeyUserName).(string); ok {
			c.Set(constants.ContextKeyUserName, name)
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetActor returns the identity recorded in activity logs
func GetActor(c *gin.Context) (models.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{ID: userID, Name: c.GetString(constants.ContextKeyUserName)}, true
}
