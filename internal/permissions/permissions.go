// Package permissions derives a user's effective role on a board from
// ownership and the board's share list.
package permissions

import (
	"errors"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// ErrForbidden is returned when the resolved role is below what an operation needs
var ErrForbidden = errors.New("forbidden")

var rank = map[models.Role]int{
	models.RoleNone:   0,
	models.RoleViewer: 1,
	models.RoleEditor: 2,
	models.RoleOwner:  3,
}

// Resolve returns owner, the shared role, or none
func Resolve(userID string, board models.Board) models.Role {
	if userID == "" {
		return models.RoleNone
	}
	if board.OwnerID == userID {
		return models.RoleOwner
	}
	for _, s := range board.SharedWith {
		if s.UserID == userID {
			if _, ok := rank[s.Role]; !ok || s.Role == models.RoleOwner {
				// ownership cannot be granted through the share list
				return models.RoleNone
			}
			return s.Role
		}
	}
	return models.RoleNone
}

// AtLeast reports whether role meets min
func AtLeast(role, min models.Role) bool {
	return rank[role] >= rank[min]
}

// CanRead: any role but none
func CanRead(role models.Role) bool { return AtLeast(role, models.RoleViewer) }

// CanEdit: owner and editor
func CanEdit(role models.Role) bool { return AtLeast(role, models.RoleEditor) }

// CanInteract covers comments and reactions, which every reader may post.
func CanInteract(role models.Role) bool { return CanRead(role) }

// IsOwner covers board deletion and sharing changes
func IsOwner(role models.Role) bool { return role == models.RoleOwner }

// Require returns ErrForbidden unless the user holds at least min on the board
func Require(userID string, board models.Board, min models.Role) error {
	if !AtLeast(Resolve(userID, board), min) {
		return ErrForbidden
	}
	return nil
}

// VisibleBoards keeps the boards the user owns or is shared on, preserving order
func VisibleBoards(userID string, boards []models.Board) []models.Board {
	out := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if CanRead(Resolve(userID, b)) {
			out = append(out, b)
		}
	}
	return out
}

// ValidShareRole reports whether role may be granted through sharing
func ValidShareRole(role models.Role) bool {
	return role == models.RoleEditor || role == models.RoleViewer
}
