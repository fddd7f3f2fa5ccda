package store

import (
	"strings"

	"github.com/yukikurage/taskboard-api/internal/dragdrop"
	"github.com/yukikurage/taskboard-api/internal/models"
)

// CreateColumn appends an empty column to the board
func (s *Store) CreateColumn(actor models.Actor, boardID, title string) (models.Column, error) {
	var created models.Column
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(boardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		title, err := validateTitle("title", title)
		if err != nil {
			return err
		}

		col := models.Column{
			ID:      s.newID(),
			Title:   title,
			BoardID: board.ID,
			TaskIDs: []string{},
		}
		board.Columns = append(board.Columns, col)
		s.tick()
		tx.emit(EventColumnsChanged, board.ID, "")
		created = col.Clone()
		return nil
	})
	return created, err
}

// RenameColumn is a no-op for an empty title
func (s *Store) RenameColumn(actor models.Actor, columnID, title string) (models.Column, error) {
	var result models.Column
	err := s.write(actor, func(tx *txn) error {
		board, col, _, err := s.column(columnID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if strings.TrimSpace(title) == "" {
			result = col.Clone()
			return nil
		}
		title, err := validateTitle("title", title)
		if err != nil {
			return err
		}
		col.Title = title
		s.tick()
		tx.emit(EventColumnsChanged, board.ID, "")
		result = col.Clone()
		return nil
	})
	return result, err
}

// ArchiveColumn soft-deletes the column and archives the tasks it holds.
// Task-column links stay intact.
func (s *Store) ArchiveColumn(actor models.Actor, columnID string) (models.Column, error) {
	var result models.Column
	err := s.write(actor, func(tx *txn) error {
		board, col, _, err := s.column(columnID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if col.IsArchived {
			result = col.Clone()
			return nil
		}

		col.IsArchived = true
		for _, id := range col.TaskIDs {
			t := s.tasks[id]
			if t.IsArchived {
				continue
			}
			t.IsArchived = true
			t.ArchivedWithColumn = true
			tx.record(t, models.ActionArchived, map[string]string{"column": col.Title})
		}
		tx.emit(EventColumnsChanged, board.ID, "")
		result = col.Clone()
		return nil
	})
	return result, err
}

// RestoreColumn reverses ArchiveColumn for exactly the tasks it archived
func (s *Store) RestoreColumn(actor models.Actor, columnID string) (models.Column, error) {
	var result models.Column
	err := s.write(actor, func(tx *txn) error {
		board, col, _, err := s.column(columnID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if !col.IsArchived {
			result = col.Clone()
			return nil
		}

		col.IsArchived = false
		for _, id := range col.TaskIDs {
			t := s.tasks[id]
			if !t.ArchivedWithColumn {
				continue
			}
			t.IsArchived = false
			t.ArchivedWithColumn = false
			tx.record(t, models.ActionRestored, map[string]string{"column": col.Title})
		}
		tx.emit(EventColumnsChanged, board.ID, "")
		result = col.Clone()
		return nil
	})
	return result, err
}

// DeleteColumnPermanently removes the column and every task it references.
// The caller must pass confirmed; a missing column is a no-op.
func (s *Store) DeleteColumnPermanently(actor models.Actor, columnID string, confirmed bool) error {
	return s.write(actor, func(tx *txn) error {
		board, col, idx, err := s.column(columnID)
		if err != nil {
			return nil
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if !confirmed {
			return invalid("confirm", "permanent deletion must be confirmed")
		}

		for _, id := range col.TaskIDs {
			delete(s.tasks, id)
			tx.emit(EventTaskDeleted, board.ID, id)
		}
		board.Columns = dragdrop.RemoveAt(board.Columns, idx)
		s.tick()
		tx.emit(EventColumnsChanged, board.ID, "")
		return nil
	})
}

// CopyColumn duplicates the column's non-archived tasks, with fresh ids and
// completion reset, into a new column appended to the board.
func (s *Store) CopyColumn(actor models.Actor, columnID, newTitle string) (models.Column, error) {
	var created models.Column
	err := s.write(actor, func(tx *txn) error {
		board, src, _, err := s.column(columnID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if strings.TrimSpace(newTitle) == "" {
			newTitle = src.Title + " (copy)"
		}
		title, err := validateTitle("title", newTitle)
		if err != nil {
			return err
		}

		col := models.Column{
			ID:      s.newID(),
			Title:   title,
			BoardID: board.ID,
			TaskIDs: make([]string, 0, len(src.TaskIDs)),
		}
		copies := make([]*models.Task, 0, len(src.TaskIDs))
		for _, id := range src.TaskIDs {
			orig := s.tasks[id]
			if orig.IsArchived {
				continue
			}
			dup := orig.Clone()
			dup.ID = s.newID()
			dup.ColumnID = col.ID
			dup.IsCompleted = false
			dup.NextOccurrenceID = ""
			dup.Comments = []models.Comment{}
			dup.Reactions = []models.Reaction{}
			dup.Logs = []models.ActivityLog{}
			for i := range dup.Checklist {
				dup.Checklist[i].ID = s.newID()
			}
			dup.CreatedAt = s.tick()
			col.TaskIDs = append(col.TaskIDs, dup.ID)
			copies = append(copies, &dup)
		}

		board.Columns = append(board.Columns, col)
		for _, dup := range copies {
			s.tasks[dup.ID] = dup
			tx.record(dup, models.ActionCreated, map[string]string{"column": col.Title, "copiedFrom": src.Title})
			tx.emit(EventTaskCreated, board.ID, dup.ID)
		}
		tx.emit(EventColumnsChanged, board.ID, "")
		created = col.Clone()
		return nil
	})
	return created, err
}

// ApplyTransform performs a drag result as one transaction
func (s *Store) ApplyTransform(actor models.Actor, t dragdrop.Transform) error {
	return s.write(actor, func(tx *txn) error {
		board, err := s.board(t.BoardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}

		switch t.Op {
		case dragdrop.OpReorderColumns:
			return s.reorderColumns(tx, board, t)
		case dragdrop.OpReorderTask:
			return s.reorderTask(tx, board, t)
		case dragdrop.OpMoveTask:
			return s.moveTaskAcross(tx, board, t)
		}
		return invalid("op", "unknown drag operation "+string(t.Op))
	})
}

func (s *Store) reorderColumns(tx *txn, board *models.Board, t dragdrop.Transform) error {
	ids := make([]string, len(board.Columns))
	for i, c := range board.Columns {
		ids[i] = c.ID
	}
	from := dragdrop.Locate(ids, t.ItemID, t.From.Index)
	if from < 0 {
		return notFound("column", t.ItemID)
	}
	to := t.To.Index
	if to < 0 || to >= len(board.Columns) {
		return invalid("destination.index", "out of range")
	}
	board.Columns = dragdrop.Move(board.Columns, from, to)
	s.tick()
	tx.emit(EventColumnsChanged, board.ID, "")
	return nil
}

func (s *Store) reorderTask(tx *txn, board *models.Board, t dragdrop.Transform) error {
	col, _ := board.Column(t.From.ColumnID)
	if col == nil {
		return notFound("column", t.From.ColumnID)
	}
	from := dragdrop.Locate(col.TaskIDs, t.ItemID, t.From.Index)
	if from < 0 {
		return notFound("task", t.ItemID)
	}
	if t.To.Index < 0 || t.To.Index >= len(col.TaskIDs) {
		return invalid("destination.index", "out of range")
	}
	col.TaskIDs = dragdrop.Move(col.TaskIDs, from, t.To.Index)
	s.tick()
	tx.emit(EventTaskMoved, board.ID, t.ItemID)
	return nil
}

func (s *Store) moveTaskAcross(tx *txn, board *models.Board, t dragdrop.Transform) error {
	src, _ := board.Column(t.From.ColumnID)
	if src == nil {
		return notFound("column", t.From.ColumnID)
	}
	dst, _ := board.Column(t.To.ColumnID)
	if dst == nil {
		return notFound("column", t.To.ColumnID)
	}
	if src.IsArchived {
		return invalid("source.columnId", "column is archived")
	}
	if dst.IsArchived {
		return invalid("destination.columnId", "column is archived")
	}
	from := dragdrop.Locate(src.TaskIDs, t.ItemID, t.From.Index)
	if from < 0 {
		return notFound("task", t.ItemID)
	}
	if t.To.Index < 0 || t.To.Index > len(dst.TaskIDs) {
		return invalid("destination.index", "out of range")
	}
	task := s.tasks[t.ItemID]

	src.TaskIDs = dragdrop.RemoveAt(src.TaskIDs, from)
	dst.TaskIDs = dragdrop.InsertAt(dst.TaskIDs, t.To.Index, t.ItemID)
	task.ColumnID = dst.ID
	tx.record(task, models.ActionMovedColumn, map[string]string{
		"from": src.Title,
		"to":   dst.Title,
	})
	tx.emit(EventTaskMoved, board.ID, task.ID)
	return nil
}
