package store

import (
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// AddScheduledReport stores a report configuration for the board
func (s *Store) AddScheduledReport(actor models.Actor, r models.ScheduledReport) (models.ScheduledReport, error) {
	var created models.ScheduledReport
	err := s.write(actor, func(tx *txn) error {
		board, err := s.board(r.BoardID)
		if err != nil {
			return err
		}
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		name, err := validateTitle("name", r.Name)
		if err != nil {
			return err
		}
		switch r.Type {
		case "":
			r.Type = models.ReportSummary
		case models.ReportSummary, models.ReportOverdue, models.ReportCompleted:
		default:
			return invalid("type", "unknown report type "+string(r.Type))
		}
		if err := validateSchedule(r.Schedule); err != nil {
			return err
		}
		recipients := normalizeIDs(r.Recipients)
		if len(recipients) == 0 {
			return invalid("recipients", "at least one recipient is required")
		}
		for _, rcpt := range recipients {
			if !strings.Contains(rcpt, "@") {
				return invalid("recipients", "invalid email "+rcpt)
			}
		}

		r.ID = s.newID()
		r.Name = name
		r.Recipients = recipients
		r.CreatedBy = actor.ID
		r.CreatedAt = s.tick()
		s.reports[r.ID] = &r
		tx.emit(EventReportsChanged, board.ID, "")
		created = r.Clone()
		return nil
	})
	return created, err
}

// DeleteScheduledReport removes a report; missing ids are a no-op
func (s *Store) DeleteScheduledReport(actor models.Actor, reportID string) error {
	return s.write(actor, func(tx *txn) error {
		r, ok := s.reports[reportID]
		if !ok {
			return nil
		}
		board := s.boards[r.BoardID]
		if err := tx.require(board, models.RoleEditor); err != nil {
			return err
		}
		delete(s.reports, reportID)
		s.tick()
		tx.emit(EventReportsChanged, board.ID, "")
		return nil
	})
}

// Reports lists a board's reports, or all reports when boardID is empty
func (s *Store) Reports(boardID string) []models.ScheduledReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ScheduledReport, 0, len(s.reports))
	for _, r := range s.reports {
		if boardID == "" || r.BoardID == boardID {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Reminder is a reminder that fires on the queried day
type Reminder struct {
	TaskID     string    `json:"taskId"`
	BoardID    string    `json:"boardId"`
	Title      string    `json:"title"`
	DueDate    time.Time `json:"dueDate"`
	DaysBefore int       `json:"daysBefore"`
}

// DueReminders lists reminders of open, active tasks whose day is the
// calendar day of now (in now's location).
func (s *Store) DueReminders(now time.Time) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := truncateDay(now)
	out := make([]Reminder, 0)
	for _, t := range s.tasks {
		if t.DueDate == nil || t.IsCompleted || t.IsArchived {
			continue
		}
		due := truncateDay(t.DueDate.In(now.Location()))
		for _, days := range t.Reminders {
			if due.AddDate(0, 0, -days).Equal(today) {
				out = append(out, Reminder{
					TaskID:     t.ID,
					BoardID:    t.BoardID,
					Title:      t.Title,
					DueDate:    *t.DueDate,
					DaysBefore: days,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaskID == out[j].TaskID {
			return out[i].DaysBefore < out[j].DaysBefore
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
