package dto

import (
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
)

type BoardRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ShareRequest struct {
	UserID string      `json:"userId" binding:"required"`
	Role   models.Role `json:"role" binding:"required"`
}

type ColumnRequest struct {
	Title string `json:"title"`
}

type LabelRequest struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// ToLabel converts the request into the label to store
func (r LabelRequest) ToLabel() models.Label {
	return models.Label{ID: r.ID, Text: r.Text, Color: r.Color}
}

type ReportRequest struct {
	Name       string                `json:"name"`
	Type       models.ReportType     `json:"type"`
	Schedule   models.ReportSchedule `json:"schedule"`
	Recipients []string              `json:"recipients"`
	Subject    string                `json:"subject"`
	Body       string                `json:"body"`
}

// ToReport converts the request into a report on the given board
func (r ReportRequest) ToReport(boardID string) models.ScheduledReport {
	return models.ScheduledReport{
		BoardID:    boardID,
		Name:       r.Name,
		Type:       r.Type,
		Schedule:   r.Schedule,
		Recipients: r.Recipients,
		Subject:    r.Subject,
		Body:       r.Body,
	}
}

// SnapshotDTO describes a stored snapshot without its payload
type SnapshotDTO struct {
	ID        uint64    `json:"id"`
	Boards    int       `json:"boards"`
	Tasks     int       `json:"tasks"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToSnapshotDTOs converts stored snapshots
func ToSnapshotDTOs(snapshots []models.BoardSnapshot) []SnapshotDTO {
	out := make([]SnapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, SnapshotDTO{
			ID:        s.ID,
			Boards:    s.Boards,
			Tasks:     s.Tasks,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}
