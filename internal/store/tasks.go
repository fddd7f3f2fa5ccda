package store

import (
	"slices"
	"strings"
	"time"

	"github.com/yukikurage/taskboard-api/internal/dragdrop"
	"github.com/yukikurage/taskboard-api/internal/models"
)

// TaskInput holds the fields of a new task
type TaskInput struct {
	Title       string
	Description string
	Assignees   []string
	LabelIDs    []string
	Priority    models.Priority
	DueDate     *time.Time
	Recurrence  models.Recurrence
	Reminders   []int
	Checklist   []models.ChecklistItem
	Attachments []models.Attachment
}

// TaskPatch holds the fields to change; nil means unchanged
type TaskPatch struct {
	Title        *string
	Description  *string
	ColumnID     *string
	Assignees    *[]string
	LabelIDs     *[]string
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
	Recurrence   *models.Recurrence
	Reminders    *[]int
	Checklist    *[]models.ChecklistItem
	Attachments  *[]models.Attachment
}

// CreateTask adds a task to the front of an active column of the board
func (s *Store) CreateTask(actor models.Actor, boardID, columnID string, in TaskInput) (models.Task, error) {
	var created models.Task
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(boardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		col, _ := board.Column(columnID)
		if col == nil {
			return notFound("column", columnID)
		}
		if col.IsArchived {
			return invalid("columnId", "column is archived")
		}

		task, err := s.buildTask(board, in)
		if err != nil {
			return err
		}
		task.ID = s.newID()
		task.BoardID = board.ID
		task.ColumnID = col.ID
		task.CreatedAt = s.tick()

		col.TaskIDs = dragdrop.InsertAt(col.TaskIDs, 0, task.ID)
		s.tasks[task.ID] = &task
		tx.record(&task, models.ActionCreated, map[string]string{"column": col.Title})
		tx.emit(EventTaskCreated, board.ID, task.ID)

		created = task.Clone()
		return nil
	})
	return created, err
}

func (s *Store) buildTask(board *models.Board, in TaskInput) (models.Task, error) {
	title, err := validateTitle("title", in.Title)
	if err != nil {
		return models.Task{}, err
	}
	priority, err := validatePriority(in.Priority)
	if err != nil {
		return models.Task{}, err
	}
	reminders, err := validateReminders(in.Reminders)
	if err != nil {
		return models.Task{}, err
	}
	recurrence, err := validateRecurrence(in.Recurrence)
	if err != nil {
		return models.Task{}, err
	}
	labels, err := validateLabelIDs(board, in.LabelIDs)
	if err != nil {
		return models.Task{}, err
	}
	checklist, err := s.validateChecklist(in.Checklist)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		Title:       title,
		Description: in.Description,
		Assignees:   normalizeIDs(in.Assignees),
		LabelIDs:    labels,
		Priority:    priority,
		DueDate:     in.DueDate,
		Recurrence:  recurrence,
		Reminders:   reminders,
		Checklist:   checklist,
		Attachments: append([]models.Attachment{}, in.Attachments...),
	}
	// Clone gives every collection a non-nil empty value
	return task.Clone(), nil
}

// UpdateTask applies the patch. A column change moves the task id from the
// old column to the end of the new one in the same commit.
func (s *Store) UpdateTask(actor models.Actor, taskID string, patch TaskPatch) (models.Task, error) {
	var updated models.Task
	err := s.write(actor, func(tx *txn) error {
		current, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[current.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}

		next := current.Clone()
		changed := make([]string, 0, 4)

		if patch.Title != nil {
			title, err := validateTitle("title", *patch.Title)
			if err != nil {
				return err
			}
			if title != next.Title {
				next.Title = title
				changed = append(changed, "title")
			}
		}
		if patch.Description != nil && *patch.Description != next.Description {
			next.Description = *patch.Description
			changed = append(changed, "description")
		}
		if patch.Assignees != nil {
			if ids := normalizeIDs(*patch.Assignees); !slices.Equal(ids, next.Assignees) {
				next.Assignees = ids
				changed = append(changed, "assignees")
			}
		}
		if patch.LabelIDs != nil {
			labels, err := validateLabelIDs(board, *patch.LabelIDs)
			if err != nil {
				return err
			}
			if !slices.Equal(labels, next.LabelIDs) {
				next.LabelIDs = labels
				changed = append(changed, "labelIds")
			}
		}
		if patch.Priority != nil {
			p, err := validatePriority(*patch.Priority)
			if err != nil {
				return err
			}
			if p != next.Priority {
				next.Priority = p
				changed = append(changed, "priority")
			}
		}
		if patch.ClearDueDate {
			if next.DueDate != nil {
				next.DueDate = nil
				changed = append(changed, "dueDate")
			}
		} else if patch.DueDate != nil {
			if d := *patch.DueDate; next.DueDate == nil || !next.DueDate.Equal(d) {
				next.DueDate = &d
				changed = append(changed, "dueDate")
			}
		}
		if patch.Recurrence != nil {
			r, err := validateRecurrence(*patch.Recurrence)
			if err != nil {
				return err
			}
			if !r.Equal(next.Recurrence) {
				next.Recurrence = r
				changed = append(changed, "recurrence")
			}
		}
		if patch.Reminders != nil {
			r, err := validateReminders(*patch.Reminders)
			if err != nil {
				return err
			}
			if !slices.Equal(r, next.Reminders) {
				next.Reminders = r
				changed = append(changed, "reminders")
			}
		}
		if patch.Checklist != nil {
			items, err := s.validateChecklist(*patch.Checklist)
			if err != nil {
				return err
			}
			if !slices.Equal(items, next.Checklist) {
				next.Checklist = items
				changed = append(changed, "checklist")
			}
		}
		if patch.Attachments != nil && !slices.Equal(*patch.Attachments, next.Attachments) {
			next.Attachments = append([]models.Attachment{}, (*patch.Attachments)...)
			changed = append(changed, "attachments")
		}

		var from, to *models.Column
		if patch.ColumnID != nil && *patch.ColumnID != current.ColumnID {
			from, _ = board.Column(current.ColumnID)
			to, _ = board.Column(*patch.ColumnID)
			if to == nil {
				return invalid("columnId", "column does not belong to the task's board")
			}
			if to.IsArchived {
				return invalid("columnId", "column is archived")
			}
			if from != nil && from.IsArchived {
				return invalid("columnId", "task's column is archived")
			}
			next.ColumnID = to.ID
			changed = append(changed, "columnId")
		}

		if len(changed) == 0 {
			updated = current.Clone()
			return nil
		}

		// commit: column lists and task record together
		details := map[string]string{"fields": strings.Join(changed, ",")}
		if to != nil {
			from.TaskIDs = dragdrop.RemoveAt(from.TaskIDs, dragdrop.IndexOf(from.TaskIDs, current.ID))
			to.TaskIDs = append(to.TaskIDs, current.ID)
			details["from"] = from.Title
			details["to"] = to.Title
		}
		tx.record(&next, models.ActionUpdated, details)
		*current = next
		tx.emit(EventTaskUpdated, board.ID, current.ID)

		updated = current.Clone()
		return nil
	})
	return updated, err
}

// DeleteTask removes the task and its column entry. Deleting a missing task
// is a no-op.
func (s *Store) DeleteTask(actor models.Actor, taskID string) error {
	return s.write(actor, func(tx *txn) error {
		t, ok := s.tasks[taskID]
		if !ok {
			return nil
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		s.removeTask(board, t)
		tx.emit(EventTaskDeleted, board.ID, taskID)
		return nil
	})
}

func (s *Store) removeTask(board *models.Board, t *models.Task) {
	if col, _ := board.Column(t.ColumnID); col != nil {
		if i := dragdrop.IndexOf(col.TaskIDs, t.ID); i >= 0 {
			col.TaskIDs = dragdrop.RemoveAt(col.TaskIDs, i)
		}
	}
	delete(s.tasks, t.ID)
}

// MoveTaskToBoard relocates the task to the end of the first active column
// of the target board. Labels that do not exist on the target are dropped.
func (s *Store) MoveTaskToBoard(actor models.Actor, taskID, targetBoardID string) (models.Task, error) {
	var moved models.Task
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		source := s.boards[t.BoardID]
		if err := tx.require(source, models.RoleEditor); err != nil {
			return err
		}
		target, err := s.board(targetBoardID)
		if err != nil {
			return err
		}
		if err := tx.require(target, models.RoleEditor); err != nil {
			return err
		}
		dest := target.FirstActiveColumn()
		if dest == nil {
			return ErrNoAvailableColumn
		}
		if dest.ID == t.ColumnID {
			moved = t.Clone()
			return nil
		}

		src, _ := source.Column(t.ColumnID)
		if src.IsArchived {
			return invalid("columnId", "task's column is archived")
		}
		src.TaskIDs = dragdrop.RemoveAt(src.TaskIDs, dragdrop.IndexOf(src.TaskIDs, t.ID))
		dest.TaskIDs = append(dest.TaskIDs, t.ID)

		kept := make([]string, 0, len(t.LabelIDs))
		for _, l := range t.LabelIDs {
			if target.HasLabel(l) {
				kept = append(kept, l)
			}
		}
		t.LabelIDs = kept
		t.BoardID = target.ID
		t.ColumnID = dest.ID
		tx.record(t, models.ActionMovedTask, map[string]string{
			"fromBoard": source.Name,
			"toBoard":   target.Name,
			"toColumn":  dest.Title,
		})
		tx.emit(EventTaskMoved, source.ID, t.ID)
		if source.ID != target.ID {
			tx.emit(EventTaskMoved, target.ID, t.ID)
		}

		moved = t.Clone()
		return nil
	})
	return moved, err
}

// ToggleTaskCompletion sets the completion flag without touching column
// membership. Completing a recurring task with a due date schedules the
// next occurrence in the same column.
func (s *Store) ToggleTaskCompletion(actor models.Actor, taskID string, completed bool) (models.Task, error) {
	var result models.Task
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if t.IsCompleted == completed {
			result = t.Clone()
			return nil
		}

		t.IsCompleted = completed
		action := models.ActionUncompleted
		if completed {
			action = models.ActionCompleted
		}
		tx.record(t, action, nil)
		tx.emit(EventTaskUpdated, board.ID, t.ID)

		if completed {
			s.spawnOccurrence(tx, board, t)
		}
		result = t.Clone()
		return nil
	})
	return result, err
}

func (s *Store) spawnOccurrence(tx *txn, board *models.Board, t *models.Task) {
	if !t.Recurrence.Active() || t.DueDate == nil {
		return
	}
	// one occurrence per task, however often completion is toggled
	if _, ok := s.tasks[t.NextOccurrenceID]; ok {
		return
	}
	due := t.Recurrence.Next(*t.DueDate)
	if end := t.Recurrence.EndDate; end != nil && due.After(*end) {
		return
	}
	col, _ := board.Column(t.ColumnID)
	if col == nil || col.IsArchived {
		return
	}

	next := t.Clone()
	next.ID = s.newID()
	next.DueDate = &due
	next.IsCompleted = false
	next.NextOccurrenceID = ""
	next.Comments = []models.Comment{}
	next.Reactions = []models.Reaction{}
	next.Logs = []models.ActivityLog{}
	for i := range next.Checklist {
		next.Checklist[i].ID = s.newID()
		next.Checklist[i].Done = false
	}
	next.CreatedAt = s.tick()

	col.TaskIDs = dragdrop.InsertAt(col.TaskIDs, dragdrop.IndexOf(col.TaskIDs, t.ID)+1, next.ID)
	s.tasks[next.ID] = &next
	t.NextOccurrenceID = next.ID
	tx.record(&next, models.ActionCreated, map[string]string{"recurrenceOf": t.ID})
	tx.emit(EventTaskCreated, board.ID, next.ID)
}

// ArchiveTask hides a single task from the active views
func (s *Store) ArchiveTask(actor models.Actor, taskID string) (models.Task, error) {
	return s.setTaskArchived(actor, taskID, true)
}

// RestoreTask brings an archived task back
func (s *Store) RestoreTask(actor models.Actor, taskID string) (models.Task, error) {
	return s.setTaskArchived(actor, taskID, false)
}

func (s *Store) setTaskArchived(actor models.Actor, taskID string, archived bool) (models.Task, error) {
	var result models.Task
	err := s.write(actor, func(tx *txn) error {
		t, err := s.task(taskID)
		if err != nil {
			return err
		}
		board := s.boards[t.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		if !archived {
			if col, _ := board.Column(t.ColumnID); col != nil && col.IsArchived {
				return invalid("columnId", "restore the column first")
			}
		}
		if t.IsArchived != archived {
			t.IsArchived = archived
			t.ArchivedWithColumn = false
			action := models.ActionRestored
			if archived {
				action = models.ActionArchived
			}
			tx.record(t, action, nil)
			tx.emit(EventTaskUpdated, board.ID, t.ID)
		}
		result = t.Clone()
		return nil
	})
	return result, err
}
