// Package dragdrop turns drag gesture outcomes into store transforms.
//
// Reorder is pure and independent of any UI drag library; Engine adds the
// permission check and hands the transform to the store, which applies it
// as one transaction.
package dragdrop

type Kind string

const (
	KindColumn Kind = "column"
	KindTask   Kind = "task"
)

// Position is a slot in a board's column sequence or in a column's task list.
// ColumnID is empty for column drags.
type Position struct {
	ColumnID string `json:"columnId"`
	Index    int    `json:"index"`
}

// Gesture is the outcome of a finished drag. A nil Destination means the
// item was dropped outside any valid target.
type Gesture struct {
	Kind        Kind      `json:"kind" binding:"required"`
	BoardID     string    `json:"boardId"`
	ItemID      string    `json:"itemId" binding:"required"`
	Source      Position  `json:"source"`
	Destination *Position `json:"destination"`
}

type Op string

const (
	OpReorderColumns Op = "reorder_columns"
	OpReorderTask    Op = "reorder_task"
	OpMoveTask       Op = "move_task"
)

// Transform is what the store applies
type Transform struct {
	Op      Op
	BoardID string
	ItemID  string
	From    Position
	To      Position
}

// Reorder maps a gesture to a transform. ok is false when the gesture
// requires no change.
func Reorder(g Gesture) (t Transform, ok bool) {
	if g.Destination == nil || g.ItemID == "" {
		return Transform{}, false
	}
	dst := *g.Destination

	switch g.Kind {
	case KindColumn:
		if dst.Index == g.Source.Index {
			return Transform{}, false
		}
		return Transform{
			Op:      OpReorderColumns,
			BoardID: g.BoardID,
			ItemID:  g.ItemID,
			From:    Position{Index: g.Source.Index},
			To:      Position{Index: dst.Index},
		}, true
	case KindTask:
		if dst.ColumnID == "" || g.Source.ColumnID == "" {
			return Transform{}, false
		}
		op := OpMoveTask
		if dst.ColumnID == g.Source.ColumnID {
			if dst.Index == g.Source.Index {
				return Transform{}, false
			}
			op = OpReorderTask
		}
		return Transform{
			Op:      op,
			BoardID: g.BoardID,
			ItemID:  g.ItemID,
			From:    g.Source,
			To:      dst,
		}, true
	}
	return Transform{}, false
}
