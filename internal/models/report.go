package models

import "time"

type ReportType string

const (
	ReportSummary   ReportType = "summary"
	ReportOverdue   ReportType = "overdue"
	ReportCompleted ReportType = "completed"
)

type ReportSchedule struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday
	Time      string `json:"time"`      // HH:MM, 24h
}

// ScheduledReport is configuration consumed by the mailer
type ScheduledReport struct {
	ID         string         `json:"id"`
	BoardID    string         `json:"boardId"`
	Name       string         `json:"name"`
	Type       ReportType     `json:"type"`
	Schedule   ReportSchedule `json:"schedule"`
	Recipients []string       `json:"recipients"`
	Subject    string         `json:"subject"`
	Body       string         `json:"body"`
	CreatedBy  string         `json:"createdBy"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (r ScheduledReport) Clone() ScheduledReport {
	out := r
	out.Recipients = append(make([]string, 0, len(r.Recipients)), r.Recipients...)
	return out
}
