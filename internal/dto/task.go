package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/store"
	"github.com/yukikurage/taskboard-api/internal/utils"
)

// TaskRequest is the body of a task creation
type TaskRequest struct {
	ColumnID    string                 `json:"columnId" binding:"required"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Assignees   []string               `json:"assignees"`
	LabelIDs    []string               `json:"labelIds"`
	Priority    models.Priority        `json:"priority"`
	DueDate     *time.Time             `json:"dueDate"`
	Recurrence  models.Recurrence      `json:"recurrence"`
	Reminders   []int                  `json:"reminders"`
	Checklist   []models.ChecklistItem `json:"checklist"`
	Attachments []models.Attachment    `json:"attachments"`
}

// ToInput converts the request into store input
func (r TaskRequest) ToInput() store.TaskInput {
	return store.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Assignees:   r.Assignees,
		LabelIDs:    r.LabelIDs,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		Recurrence:  r.Recurrence,
		Reminders:   r.Reminders,
		Checklist:   r.Checklist,
		Attachments: r.Attachments,
	}
}

// ParseTaskPatch builds a patch from the fields present in a raw JSON body.
// An explicit null dueDate clears the due date.
func ParseTaskPatch(raw map[string]json.RawMessage) (store.TaskPatch, error) {
	var patch store.TaskPatch
	fields := map[string]any{
		"title":       &patch.Title,
		"description": &patch.Description,
		"columnId":    &patch.ColumnID,
		"assignees":   &patch.Assignees,
		"labelIds":    &patch.LabelIDs,
		"priority":    &patch.Priority,
		"recurrence":  &patch.Recurrence,
		"reminders":   &patch.Reminders,
		"checklist":   &patch.Checklist,
		"attachments": &patch.Attachments,
	}
	for name, dst := range fields {
		value, ok := raw[name]
		if !ok || isNull(value) {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return store.TaskPatch{}, fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if value, ok := raw["dueDate"]; ok {
		if isNull(value) {
			patch.ClearDueDate = true
		} else {
			var due time.Time
			if err := json.Unmarshal(value, &due); err != nil {
				return store.TaskPatch{}, fmt.Errorf("invalid dueDate: %w", err)
			}
			patch.DueDate = &due
		}
	}
	return patch, nil
}

func isNull(v json.RawMessage) bool {
	return string(v) == "null"
}

type MoveTaskRequest struct {
	BoardID string `json:"boardId" binding:"required"`
}

type CompleteRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []models.Task             `json:"tasks"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// NotificationResponse is a non-fatal message shown to the user
type NotificationResponse struct {
	Notification NotificationDTO `json:"notification"`
}

type NotificationDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
