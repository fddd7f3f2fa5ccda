package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard-api/internal/calendar"
	"github.com/yukikurage/taskboard-api/internal/i18n"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/store"
)

// Mailer delivers rendered reports
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// LogMailer writes reports to the log instead of sending them
type LogMailer struct {
	Logger zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.Logger.Info().
		Strs("to", to).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("report delivered")
	return nil
}

// NextRun returns the first firing of the schedule strictly after now, in
// now's location.
func NextRun(sch models.ReportSchedule, now time.Time) (time.Time, error) {
	hh, mm, err := parseClock(sch.Time)
	if err != nil {
		return time.Time{}, err
	}
	if sch.DayOfWeek < 0 || sch.DayOfWeek > 6 {
		return time.Time{}, fmt.Errorf("invalid day of week %d", sch.DayOfWeek)
	}

	days := (sch.DayOfWeek - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day()+days, hh, mm, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next, nil
}

func parseClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hh, mm, nil
}

// ReportService renders scheduled reports and fires them and task
// reminders on a ticker.
type ReportService struct {
	store      *store.Store
	mailer     Mailer
	translator *i18n.Translator
	formatter  calendar.Formatter
	logger     zerolog.Logger

	mu          sync.Mutex
	lastTick    time.Time
	reminderDay string
}

// NewReportService creates a new ReportService
func NewReportService(st *store.Store, mailer Mailer, tr *i18n.Translator, f calendar.Formatter, logger zerolog.Logger) *ReportService {
	return &ReportService{
		store:      st,
		mailer:     mailer,
		translator: tr,
		formatter:  f,
		logger:     logger,
	}
}

// Due lists the reports that fire in (from, to]
func (s *ReportService) Due(from, to time.Time) []models.ScheduledReport {
	out := make([]models.ScheduledReport, 0)
	for _, r := range s.store.Reports("") {
		next, err := NextRun(r.Schedule, from)
		if err != nil {
			s.logger.Warn().Err(err).Str("report_id", r.ID).Msg("skipping report with invalid schedule")
			continue
		}
		if !next.After(to) {
			out = append(out, r)
		}
	}
	return out
}

// Render builds the subject and body of a report at time now
func (s *ReportService) Render(r models.ScheduledReport, now time.Time) (string, string, error) {
	board, err := s.store.Board(r.BoardID)
	if err != nil {
		return "", "", err
	}
	tasks := s.store.Tasks(r.BoardID)
	lang := s.translator.Default()

	subject := strings.TrimSpace(r.Subject)
	if subject == "" {
		subject = s.translator.T(lang, "reports.subject", map[string]string{"board": board.Name, "name": r.Name})
	}

	var sb strings.Builder
	if body := strings.TrimSpace(r.Body); body != "" {
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}

	var open, completed, overdue []models.Task
	for _, t := range tasks {
		if t.IsArchived {
			continue
		}
		switch {
		case t.IsCompleted:
			completed = append(completed, t)
		case t.DueDate != nil && t.DueDate.Before(now):
			overdue = append(overdue, t)
			open = append(open, t)
		default:
			open = append(open, t)
		}
	}

	switch r.Type {
	case models.ReportOverdue:
		sort.Slice(overdue, func(i, j int) bool { return overdue[i].DueDate.Before(*overdue[j].DueDate) })
		s.writeItems(&sb, lang, overdue)
	case models.ReportCompleted:
		s.writeItems(&sb, lang, completed)
	default:
		sb.WriteString(s.translator.T(lang, "reports.summary", map[string]string{
			"total":     strconv.Itoa(len(open) + len(completed)),
			"completed": strconv.Itoa(len(completed)),
			"overdue":   strconv.Itoa(len(overdue)),
		}))
		sb.WriteString("\n")
		for _, c := range board.Columns {
			if c.IsArchived {
				continue
			}
			sb.WriteString(s.translator.T(lang, "reports.column", map[string]string{
				"column": c.Title,
				"count":  strconv.Itoa(len(c.TaskIDs)),
			}))
			sb.WriteString("\n")
		}
	}
	return subject, sb.String(), nil
}

func (s *ReportService) writeItems(sb *strings.Builder, lang string, tasks []models.Task) {
	for _, t := range tasks {
		date := "-"
		if t.DueDate != nil {
			date = s.formatter.Format(*t.DueDate, calendar.DayKey)
		}
		sb.WriteString("- ")
		sb.WriteString(s.translator.T(lang, "reports.overdueItem", map[string]string{"title": t.Title, "date": date}))
		sb.WriteString("\n")
	}
}

// Tick sends the reports due since the previous tick and, once per day,
// logs the reminders that fire today.
func (s *ReportService) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	from := s.lastTick
	if from.IsZero() {
		from = now.Add(-time.Minute)
	}
	s.lastTick = now
	day := now.Format("2006-01-02")
	remind := day != s.reminderDay
	s.reminderDay = day
	s.mu.Unlock()

	for _, r := range s.Due(from, now) {
		subject, body, err := s.Render(r, now)
		if err != nil {
			s.logger.Warn().Err(err).Str("report_id", r.ID).Msg("failed to render report")
			continue
		}
		if err := s.mailer.Send(ctx, r.Recipients, subject, body); err != nil {
			s.logger.Error().Err(err).Str("report_id", r.ID).Msg("failed to send report")
		}
	}

	if !remind {
		return
	}
	lang := s.translator.Default()
	for _, rem := range s.store.DueReminders(now) {
		key := "notifications.reminder"
		if rem.DaysBefore == 0 {
			key = "notifications.reminderToday"
		}
		s.logger.Info().
			Str("task_id", rem.TaskID).
			Str("board_id", rem.BoardID).
			Int("days_before", rem.DaysBefore).
			Msg(s.translator.T(lang, key, map[string]string{"title": rem.Title, "days": strconv.Itoa(rem.DaysBefore)}))
	}
}

// Run ticks every interval until ctx is done
func (s *ReportService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}
