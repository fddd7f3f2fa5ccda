// Package projection derives the task lists shown by the board, list,
// calendar and archive views. It never mutates its input.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
)

type View string

const (
	ViewBoard    View = "board"
	ViewList     View = "list"
	ViewCalendar View = "calendar"
	ViewArchived View = "archived"
)

type SortField string

const (
	SortTitle    SortField = "title"
	SortDueDate  SortField = "dueDate"
	SortPriority SortField = "priority"
	SortColumn   SortField = "columnId"
)

// PriorityAll disables the priority filter
const PriorityAll = "all"

type Sort struct {
	Field SortField
	Desc  bool
}

type Query struct {
	BoardID  string
	View     View
	Search   string
	LabelIDs []string
	Priority string
	Sort     Sort
}

// Valid reports whether the view is known; an empty view means board
func (v View) Valid() bool {
	switch v {
	case "", ViewBoard, ViewList, ViewCalendar, ViewArchived:
		return true
	}
	return false
}

// Valid reports whether f is a sortable field; empty keeps creation order
func (f SortField) Valid() bool {
	switch f {
	case "", SortTitle, SortDueDate, SortPriority, SortColumn:
		return true
	}
	return false
}

// Project filters and orders tasks for the query. boards supplies the
// column order used by the board view.
func Project(tasks []models.Task, boards []models.Board, q Query) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, q) {
			out = append(out, t.Clone())
		}
	}

	switch q.View {
	case ViewList:
		sortTasks(out, q.Sort)
	case ViewCalendar:
		sortTasks(out, Sort{Field: SortDueDate})
	case ViewArchived:
	default:
		out = boardOrder(out, boards)
	}
	return out
}

func matches(t models.Task, q Query) bool {
	if q.BoardID != "" && t.BoardID != q.BoardID {
		return false
	}
	if (q.View == ViewArchived) != t.IsArchived {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if !t.HasLabels(q.LabelIDs) {
		return false
	}
	if q.Priority != "" && q.Priority != PriorityAll && string(t.Priority) != q.Priority {
		return false
	}
	return true
}

func sortTasks(tasks []models.Task, s Sort) {
	if s.Field == "" {
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		c := compare(tasks[i], tasks[j], s.Field)
		if c == 0 {
			return false
		}
		// tasks without a due date stay last in both directions
		if s.Field == SortDueDate && (tasks[i].DueDate == nil || tasks[j].DueDate == nil) {
			return c < 0
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b models.Task, field SortField) int {
	switch field {
	case SortTitle:
		return strings.Compare(a.Title, b.Title)
	case SortPriority:
		return strings.Compare(string(a.Priority), string(b.Priority))
	case SortColumn:
		return strings.Compare(a.ColumnID, b.ColumnID)
	case SortDueDate:
		return compareDue(a.DueDate, b.DueDate)
	}
	return 0
}

func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

// boardOrder lays tasks out column by column following each column's
// taskIds. Tasks not listed by any column keep their relative order at the end.
func boardOrder(tasks []models.Task, boards []models.Board) []models.Task {
	rank := make(map[string]int, len(tasks))
	n := 0
	for _, b := range boards {
		for _, c := range b.Columns {
			for _, id := range c.TaskIDs {
				rank[id] = n
				n++
			}
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, okI := rank[tasks[i].ID]
		rj, okJ := rank[tasks[j].ID]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		}
		return false
	})
	return tasks
}

// Formatter formats a timestamp with a date pattern
type Formatter interface {
	Format(t time.Time, pattern string) string
}

// CalendarBuckets groups tasks with a due date by day key (yyyy-MM-dd in the
// formatter's calendar), keeping the input order inside each day.
func CalendarBuckets(tasks []models.Task, f Formatter) map[string][]models.Task {
	out := make(map[string][]models.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := f.Format(*t.DueDate, "yyyy-MM-dd")
		out[key] = append(out[key], t.Clone())
	}
	return out
}
