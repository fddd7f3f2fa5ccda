package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/permissions"
	"github.com/yukikurage/taskboard-api/internal/services"
	"github.com/yukikurage/taskboard-api/internal/store"
)

// BoardLoader resolves a board for a user
type BoardLoader interface {
	BoardFor(userID, boardID string) (services.BoardView, error)
}

// RequireBoardAccess loads the board named by the :id parameter. Boards the
// user has no role on are reported as not found.
func RequireBoardAccess(boards BoardLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		view, err := boards.BoardFor(userID, c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				apierrors.NotFound(c, apierrors.Localized(c, "errors.notFound", "Board not found", nil))
			} else {
				apierrors.FromDomain(c, err)
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyBoard, view.Board)
		c.Set(constants.ContextKeyBoardRole, view.Role)
		c.Next()
	}
}

// RequireBoardRole rejects callers below min on the loaded board
func RequireBoardRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetBoardRole(c)
		if !ok {
			apierrors.Forbidden(c, "Board access required")
			c.Abort()
			return
		}

		if !permissions.AtLeast(role, min) {
			apierrors.Forbidden(c, apierrors.Localized(c, "errors.forbidden", "", nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetBoard returns the board loaded by RequireBoardAccess
func GetBoard(c *gin.Context) (models.Board, bool) {
	v, exists := c.Get(constants.ContextKeyBoard)
	if !exists {
		return models.Board{}, false
	}
	board, ok := v.(models.Board)
	return board, ok
}

// GetBoardRole returns the caller's role on the loaded board
func GetBoardRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(constants.ContextKeyBoardRole)
	if !exists {
		return models.RoleNone, false
	}
	role, ok := v.(models.Role)
	return role, ok
}
