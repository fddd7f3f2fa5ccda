package models

import "time"

type Action string

const (
	ActionCreated          Action = "created"
	ActionUpdated          Action = "updated"
	ActionCompleted        Action = "completed_task"
	ActionUncompleted      Action = "uncompleted_task"
	ActionMovedTask        Action = "moved_task"
	ActionMovedColumn      Action = "moved_column"
	ActionCommented        Action = "commented"
	ActionArchived         Action = "archived_task"
	ActionRestored         Action = "restored_task"
	ActionChecklistUpdated Action = "checklist_updated"
)

// ActivityLog is an append-only entry attached to the task it documents
type ActivityLog struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	UserID    string            `json:"userId"`
	UserName  string            `json:"userName"`
	Action    Action            `json:"action"`
	Details   map[string]string `json:"details"`
}

func (l ActivityLog) Clone() ActivityLog {
	out := l
	out.Details = make(map[string]string, len(l.Details))
	for k, v := range l.Details {
		out.Details[k] = v
	}
	return out
}

// Actor identifies who performs a mutation
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
