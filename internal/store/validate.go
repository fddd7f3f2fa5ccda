package store

import (
	"regexp"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/models"
)

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

const maxTitleLength = 200

func validateTitle(field, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid(field, "is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", invalid(field, "is too long")
	}
	return title, nil
}

func validateColor(color string) (string, error) {
	color = strings.ToUpper(strings.TrimSpace(color))
	if !hexColorPattern.MatchString(color) {
		return "", invalid("color", "must be HEX (#RRGGBB)")
	}
	return color, nil
}

func validatePriority(p models.Priority) (models.Priority, error) {
	if p == "" {
		return models.PriorityMedium, nil
	}
	if !p.Valid() {
		return "", invalid("priority", "unknown priority "+string(p))
	}
	return p, nil
}

func validateReminders(days []int) ([]int, error) {
	out := make([]int, 0, len(days))
	seen := make(map[int]struct{}, len(days))
	for _, d := range days {
		if d < 0 || d > constants.MaxReminderDays {
			return nil, invalid("reminders", "offset must be between 0 and 365 days")
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

func validateRecurrence(r models.Recurrence) (models.Recurrence, error) {
	if r.Frequency == "" {
		r.Frequency = models.FrequencyNone
	}
	switch r.Frequency {
	case models.FrequencyNone:
		return models.Recurrence{Frequency: models.FrequencyNone}, nil
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return models.Recurrence{}, invalid("recurrence", "unknown frequency "+string(r.Frequency))
	}
	if r.Interval < 1 {
		return models.Recurrence{}, invalid("recurrence", "interval must be at least 1")
	}
	return r, nil
}

func validateLabelIDs(board *models.Board, ids []string) ([]string, error) {
	out := normalizeIDs(ids)
	for _, id := range out {
		if !board.HasLabel(id) {
			return nil, invalid("labelIds", "unknown label "+id)
		}
	}
	return out, nil
}

func (s *Store) validateChecklist(items []models.ChecklistItem) ([]models.ChecklistItem, error) {
	out := make([]models.ChecklistItem, 0, len(items))
	for _, item := range items {
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			return nil, invalid("checklist", "item text is required")
		}
		if item.ID == "" {
			item.ID = s.newID()
		}
		out = append(out, item)
	}
	return out, nil
}

func validateSchedule(sch models.ReportSchedule) error {
	if sch.DayOfWeek < 0 || sch.DayOfWeek > 6 {
		return invalid("schedule.dayOfWeek", "must be between 0 and 6")
	}
	if !clockPattern.MatchString(sch.Time) {
		return invalid("schedule.time", "must be HH:MM")
	}
	return nil
}

// normalizeIDs trims, drops empties and duplicates, keeping first-seen order
func normalizeIDs(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
