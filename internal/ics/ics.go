// Package ics exports tasks with a due date as an iCalendar feed
package ics

import (
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/yukikurage/taskboard-api/internal/models"
)

// ErrNothingToExport is returned when no task has a due date
var ErrNothingToExport = errors.New("no tasks with a due date")

const productID = "-//taskboard-api//board export//EN"

// Export renders one all-day event per open task with a due date
func Export(boardName string, tasks []models.Task, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if boardName != "" {
		cal.SetName(boardName)
	}

	n := 0
	for _, t := range tasks {
		if t.DueDate == nil || t.IsArchived {
			continue
		}
		due := t.DueDate.UTC()
		start := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)

		event := cal.AddEvent(t.ID + "@taskboard")
		event.SetDtStampTime(stamp)
		event.SetModifiedAt(t.UpdatedAt)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary(t.Title)
		if desc := strings.TrimSpace(t.Description); desc != "" {
			event.SetDescription(desc)
		}
		event.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(t.Priority)))
		n++
	}
	if n == 0 {
		return nil, ErrNothingToExport
	}
	return []byte(cal.Serialize()), nil
}
