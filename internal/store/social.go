package store

import (
	"strings"

	"github.com/yukikurage/taskboard-api/internal/dragdrop"
	"github.com/yukikurage/taskboard-api/internal/models"
)

// AddComment is open to every role that can read the board
func (s *Store) AddComment(actor models.Actor, taskID, text string) (models.Comment, error) {
	var created models.Comment
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleViewer); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return invalid("text", "is required")
		}

		c := models.Comment{
			ID:        s.newID(),
			UserID:    actor.ID,
			UserName:  actor.Name,
			Text:      text,
			CreatedAt: s.tick(),
		}
		t.Comments = append(t.Comments, c)
		tx.record(t, models.ActionCommented, map[string]string{"commentId": c.ID})
		tx.emit(EventCommentAdded, board.ID, t.ID)
		created = c
		return nil
	})
	return created, err
}

// AddReaction toggles the user+emoji pair on the task
func (s *Store) AddReaction(actor models.Actor, taskID, emoji string) ([]models.Reaction, error) {
	var result []models.Reaction
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleViewer); err != nil {
			return err
		}
		emoji = strings.TrimSpace(emoji)
		if emoji == "" {
			return invalid("emoji", "is required")
		}

		idx := -1
		for i, r := range t.Reactions {
			if r.UserID == actor.ID && r.Emoji == emoji {
				idx = i
				break
			}
		}
		if idx >= 0 {
			t.Reactions = dragdrop.RemoveAt(t.Reactions, idx)
		} else {
			t.Reactions = append(t.Reactions, models.Reaction{UserID: actor.ID, Emoji: emoji})
		}
		s.tick()
		tx.emit(EventReactionToggled, board.ID, t.ID)
		result = append([]models.Reaction{}, t.Reactions...)
		return nil
	})
	return result, err
}

// AddChecklistItem appends an unchecked item
func (s *Store) AddChecklistItem(actor models.Actor, taskID, text string) (models.ChecklistItem, error) {
	var created models.ChecklistItem
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return invalid("text", "is required")
		}
		item := models.ChecklistItem{ID: s.newID(), Text: text}
		t.Checklist = append(t.Checklist, item)
		tx.record(t, models.ActionChecklistUpdated, map[string]string{"added": item.Text})
		tx.emit(EventTaskUpdated, board.ID, t.ID)
		created = item
		return nil
	})
	return created, err
}

// ToggleChecklistItem flips the done flag of one item
func (s *Store) ToggleChecklistItem(actor models.Actor, taskID, itemID string) (models.ChecklistItem, error) {
	var result models.ChecklistItem
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		for i := range t.Checklist {
			if t.Checklist[i].ID != itemID {
				continue
			}
			t.Checklist[i].Done = !t.Checklist[i].Done
			state := "unchecked"
			if t.Checklist[i].Done {
				state = "checked"
			}
			tx.record(t, models.ActionChecklistUpdated, map[string]string{state: t.Checklist[i].Text})
			tx.emit(EventTaskUpdated, board.ID, t.ID)
			result = t.Checklist[i]
			return nil
		}
		return notFound("checklist item", itemID)
	})
	return result, err
}
