package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Frequency string

const (
	FrequencyNone    Frequency = "none"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

type Recurrence struct {
	Frequency Frequency  `json:"frequency"`
	Interval  int        `json:"interval"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Active reports whether the rule produces further occurrences
func (r Recurrence) Active() bool {
	return r.Frequency != "" && r.Frequency != FrequencyNone
}

// Equal reports whether both rules schedule the same occurrences
func (r Recurrence) Equal(o Recurrence) bool {
	if r.Frequency != o.Frequency || r.Interval != o.Interval {
		return false
	}
	if r.EndDate == nil || o.EndDate == nil {
		return r.EndDate == nil && o.EndDate == nil
	}
	return r.EndDate.Equal(*o.EndDate)
}

// Next advances t by one interval of the rule
func (r Recurrence) Next(t time.Time) time.Time {
	n := r.Interval
	if n < 1 {
		n = 1
	}
	switch r.Frequency {
	case FrequencyDaily:
		return t.AddDate(0, 0, n)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7*n)
	case FrequencyMonthly:
		return t.AddDate(0, n, 0)
	case FrequencyYearly:
		return t.AddDate(n, 0, 0)
	}
	return t
}

type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Reaction struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}

type Task struct {
	ID                 string          `json:"id"`
	BoardID            string          `json:"boardId"`
	ColumnID           string          `json:"columnId"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Assignees          []string        `json:"assignees"`
	LabelIDs           []string        `json:"labelIds"`
	Priority           Priority        `json:"priority"`
	DueDate            *time.Time      `json:"dueDate"`
	Recurrence         Recurrence      `json:"recurrence"`
	Reminders          []int           `json:"reminders"`
	Checklist          []ChecklistItem `json:"checklist"`
	Attachments        []Attachment    `json:"attachments"`
	Comments           []Comment       `json:"comments"`
	Logs               []ActivityLog   `json:"logs"`
	Reactions          []Reaction      `json:"reactions"`
	IsCompleted        bool            `json:"isCompleted"`
	IsArchived         bool            `json:"isArchived"`
	ArchivedWithColumn bool            `json:"archivedWithColumn,omitempty"`
	NextOccurrenceID   string          `json:"nextOccurrenceId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	out := t
	out.Assignees = append(make([]string, 0, len(t.Assignees)), t.Assignees...)
	out.LabelIDs = append(make([]string, 0, len(t.LabelIDs)), t.LabelIDs...)
	out.Reminders = append(make([]int, 0, len(t.Reminders)), t.Reminders...)
	out.Checklist = append(make([]ChecklistItem, 0, len(t.Checklist)), t.Checklist...)
	out.Attachments = append(make([]Attachment, 0, len(t.Attachments)), t.Attachments...)
	out.Comments = append(make([]Comment, 0, len(t.Comments)), t.Comments...)
	out.Reactions = append(make([]Reaction, 0, len(t.Reactions)), t.Reactions...)
	out.Logs = make([]ActivityLog, 0, len(t.Logs))
	for _, l := range t.Logs {
		out.Logs = append(out.Logs, l.Clone())
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.Recurrence.EndDate != nil {
		d := *t.Recurrence.EndDate
		out.Recurrence.EndDate = &d
	}
	return out
}

// HasLabels reports whether the task carries every given label
func (t Task) HasLabels(labelIDs []string) bool {
	for _, want := range labelIDs {
		found := false
		for _, have := range t.LabelIDs {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
