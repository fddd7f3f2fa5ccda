package store

import "fmt"

// CheckInvariants verifies that every task is held by exactly one column,
// that this column is the task's ColumnID on the task's board, that no
// column lists a missing task and that task labels exist on their board.
func (s *Store) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkInvariants()
}

func (s *Store) checkInvariants() error {
	holders := make(map[string][]string, len(s.tasks))
	columnBoard := make(map[string]string)

	for _, bid := range s.boardOrder {
		b := s.boards[bid]
		for _, c := range b.Columns {
			if c.BoardID != b.ID {
				return fmt.Errorf("column %s claims board %s but lives on %s", c.ID, c.BoardID, b.ID)
			}
			if _, dup := columnBoard[c.ID]; dup {
				return fmt.Errorf("column %s appears twice", c.ID)
			}
			columnBoard[c.ID] = b.ID
			for _, tid := range c.TaskIDs {
				if _, ok := s.tasks[tid]; !ok {
					return fmt.Errorf("column %s lists missing task %s", c.ID, tid)
				}
				holders[tid] = append(holders[tid], c.ID)
			}
		}
	}

	for id, t := range s.tasks {
		h := holders[id]
		if len(h) != 1 {
			return fmt.Errorf("task %s is held by %d columns", id, len(h))
		}
		if h[0] != t.ColumnID {
			return fmt.Errorf("task %s points at column %s but is held by %s", id, t.ColumnID, h[0])
		}
		if columnBoard[h[0]] != t.BoardID {
			return fmt.Errorf("task %s points at board %s but its column is on %s", id, t.BoardID, columnBoard[h[0]])
		}
		b := s.boards[t.BoardID]
		for _, l := range t.LabelIDs {
			if !b.HasLabel(l) {
				return fmt.Errorf("task %s references unknown label %s", id, l)
			}
		}
	}
	return nil
}
