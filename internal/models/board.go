package models

// Role is the effective access level of a user on a board
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleNone   Role = "none"
)

// Share grants a non-owner user a role on a board
type Share struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

type Board struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	OwnerID    string   `json:"ownerId"`
	SharedWith []Share  `json:"sharedWith"`
	Columns    []Column `json:"columns"`
	Labels     []Label  `json:"labels"`
}

type Column struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	BoardID    string   `json:"boardId"`
	IsArchived bool     `json:"isArchived"`
	TaskIDs    []string `json:"taskIds"`
}

type Label struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	out := b
	out.SharedWith = append(make([]Share, 0, len(b.SharedWith)), b.SharedWith...)
	out.Labels = append(make([]Label, 0, len(b.Labels)), b.Labels...)
	out.Columns = make([]Column, 0, len(b.Columns))
	for _, c := range b.Columns {
		out.Columns = append(out.Columns, c.Clone())
	}
	return out
}

// Clone returns a deep copy of the column
func (c Column) Clone() Column {
	out := c
	out.TaskIDs = append(make([]string, 0, len(c.TaskIDs)), c.TaskIDs...)
	return out
}

// Column returns the column with the given id and its position
func (b *Board) Column(columnID string) (*Column, int) {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return &b.Columns[i], i
		}
	}
	return nil, -1
}

// FirstActiveColumn returns the first non-archived column, or nil
func (b *Board) FirstActiveColumn() *Column {
	for i := range b.Columns {
		if !b.Columns[i].IsArchived {
			return &b.Columns[i]
		}
	}
	return nil
}

// HasLabel reports whether the board defines the label
func (b *Board) HasLabel(labelID string) bool {
	for _, l := range b.Labels {
		if l.ID == labelID {
			return true
		}
	}
	return false
}
