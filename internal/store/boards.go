package store

import (
	"strings"

	"github.com/yukikurage/taskboard-api/internal/dragdrop"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/permissions"
)

// DefaultColumnTitles are created with every new board
var DefaultColumnTitles = []string{"To Do", "In Progress", "Done"}

const defaultBoardColor = "#3B82F6"

// CreateBoard makes ownerID the owner of a new board with the default columns
func (s *Store) CreateBoard(name, color, ownerID string) (models.Board, error) {
	var created models.Board
	err := s.write(models.Actor{ID: ownerID}, func(tx *txn) error {
		if strings.TrimSpace(ownerID) == "" {
			return invalid("ownerId", "is required")
		}
		name, err := validateTitle("name", name)
		if err != nil {
			return err
		}
		if strings.TrimSpace(color) == "" {
			color = defaultBoardColor
		}
		color, err := validateColor(color)
		if err != nil {
			return err
		}

		board := models.Board{
			ID:         s.newID(),
			Name:       name,
			Color:      color,
			OwnerID:    ownerID,
			SharedWith: []models.Share{},
			Columns:    make([]models.Column, 0, len(DefaultColumnTitles)),
			Labels:     []models.Label{},
		}
		for _, title := range DefaultColumnTitles {
			board.Columns = append(board.Columns, models.Column{
				ID:      s.newID(),
				Title:   title,
				BoardID: board.ID,
				TaskIDs: []string{},
			})
		}
		s.boards[board.ID] = &board
		s.boardOrder = append(s.boardOrder, board.ID)
		s.tick()
		tx.emit(EventBoardCreated, board.ID, "")

		created = board.Clone()
		return nil
	})
	return created, err
}

// UpdateBoard changes name and color; empty values are left unchanged
func (s *Store) UpdateBoard(actor models.Actor, boardID, name, color string) (models.Board, error) {
	var result models.Board
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(boardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		next := board.Name
		if strings.TrimSpace(name) != "" {
			if next, err = validateTitle("name", name); err != nil {
				return err
			}
		}
		nextColor := board.Color
		if strings.TrimSpace(color) != "" {
			if nextColor, err = validateColor(color); err != nil {
				return err
			}
		}
		board.Name = next
		board.Color = nextColor
		s.tick()
		tx.emit(EventBoardUpdated, board.ID, "")
		result = board.Clone()
		return nil
	})
	return result, err
}

// DeleteBoard is owner-only and cascades to the board's tasks and reports.
// A missing board is a no-op.
func (s *Store) DeleteBoard(boardID, requestingUserID string) error {
	return s.write(models.Actor{ID: requestingUserID}, func(tx *txn) error {
		board, ok := s.boards[boardID]
		if !ok {
			return nil
		}
		if board.OwnerID != requestingUserID {
			return ErrForbidden
		}

		for id, t := range s.tasks {
			if t.BoardID == boardID {
				delete(s.tasks, id)
			}
		}
		for id, r := range s.reports {
			if r.BoardID == boardID {
				delete(s.reports, id)
			}
		}
		delete(s.boards, boardID)
		s.boardOrder = dragdrop.RemoveAt(s.boardOrder, dragdrop.IndexOf(s.boardOrder, boardID))
		s.tick()
		tx.emit(EventBoardDeleted, boardID, "")
		return nil
	})
}

// ShareBoard grants or changes a user's role; owner-only
func (s *Store) ShareBoard(actor models.Actor, boardID, userID string, role models.Role) (models.Board, error) {
	var result models.Board
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(boardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleOwner); err != nil {
			return err
		}
		userID = strings.TrimSpace(userID)
		if userID == "" {
			return invalid("userId", "is required")
		}
		if userID == board.OwnerID {
			return invalid("userId", "owner cannot be shared with")
		}
		if !permissions.ValidShareRole(role) {
			return invalid("role", "must be editor or viewer")
		}

		updated := false
		for i := range board.SharedWith {
			if board.SharedWith[i].UserID == userID {
				board.SharedWith[i].Role = role
				updated = true
			}
		}
		if !updated {
			board.SharedWith = append(board.SharedWith, models.Share{UserID: userID, Role: role})
		}
		s.tick()
		tx.emit(EventBoardUpdated, board.ID, "")
		result = board.Clone()
		return nil
	})
	return result, err
}

// UnshareBoard revokes a user's access; owner-only
func (s *Store) UnshareBoard(actor models.Actor, boardID, userID string) (models.Board, error) {
	var result models.Board
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(boardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleOwner); err != nil {
			return err
		}
		kept := make([]models.Share, 0, len(board.SharedWith))
		for _, sh := range board.SharedWith {
			if sh.UserID != userID {
				kept = append(kept, sh)
			}
		}
		if len(kept) != len(board.SharedWith) {
			board.SharedWith = kept
			s.tick()
			tx.emit(EventBoardUpdated, board.ID, "")
		}
		result = board.Clone()
		return nil
	})
	return result, err
}

// AddOrUpdateLabel creates the label when its id is empty or unknown,
// otherwise replaces text and color. Colors are unique within a board.
func (s *Store) AddOrUpdateLabel(actor models.Actor, boardID string, label models.Label) (models.Label, error) {
	var result models.Label
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(boardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		text, err := validateTitle("text", label.Text)
		if err != nil {
			return err
		}
		color, err := validateColor(label.Color)
		if err != nil {
			return err
		}
		for _, l := range board.Labels {
			if l.ID != label.ID && l.Color == color {
				return invalid("color", "already used by label "+l.Text)
			}
		}

		label.Text = text
		label.Color = color
		idx := -1
		for i, l := range board.Labels {
			if label.ID != "" && l.ID == label.ID {
				idx = i
			}
		}
		if idx >= 0 {
			board.Labels[idx] = label
		} else {
			if label.ID == "" {
				label.ID = s.newID()
			}
			board.Labels = append(board.Labels, label)
		}
		s.tick()
		tx.emit(EventLabelsChanged, board.ID, "")
		result = label
		return nil
	})
	return result, err
}

// DeleteLabel removes the label and strips its id from every task of the board
func (s *Store) DeleteLabel(actor models.Actor, boardID, labelID string) error {
	return s.write(actor, func(tx *txn) error {
		board, ok := s.boards[boardID]
		if !ok {
			return nil
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		idx := -1
		for i, l := range board.Labels {
			if l.ID == labelID {
				idx = i
			}
		}
		if idx < 0 {
			return nil
		}

		board.Labels = dragdrop.RemoveAt(board.Labels, idx)
		s.tick()
		for _, t := range s.tasks {
			if t.BoardID != boardID {
				continue
			}
			if i := dragdrop.IndexOf(t.LabelIDs, labelID); i >= 0 {
				t.LabelIDs = dragdrop.RemoveAt(t.LabelIDs, i)
				tx.emit(EventTaskUpdated, board.ID, t.ID)
			}
		}
		tx.emit(EventLabelsChanged, board.ID, "")
		return nil
	})
}
