package store

import "github.com/yukikurage/taskboard-api/internal/models"

// record appends an immutable log entry to the task. It must only be called
// once the mutation can no longer fail.
func (tx *txn) record(t *models.Task, action models.Action, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	at := tx.s.tick()
	t.Logs = append(t.Logs, models.ActivityLog{
		ID:        tx.s.newID(),
		Timestamp: at,
		UserID:    tx.actor.ID,
		UserName:  tx.actor.Name,
		Action:    action,
		Details:   details,
	})
	t.UpdatedAt = at
}

// Activity returns a task's log in append order
func (s *Store) Activity(taskID string) ([]models.ActivityLog, error) {
	t, err := s.Task(taskID)
	if err != nil {
		return nil, err
	}
	return t.Logs, nil
}
