// Package seed fills an empty installation with demo users and a board
package seed

import (
	"fmt"
	"time"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/store"
)

// Demo users sign in by email alone
var Users = []models.User{
	{ID: "user-1", Email: "sara@example.com", Name: "Sara Ahmadi"},
	{ID: "user-2", Email: "reza@example.com", Name: "Reza Karimi"},
	{ID: "user-3", Email: "mina@example.com", Name: "Mina Rahimi"},
}

// EnsureUsers creates the demo users when the user table is empty
func EnsureUsers(repo repository.UserRepository) error {
	n, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, u := range Users {
		if err := repo.Create(&u); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
	}
	return nil
}

// Boards returns a seed function creating one shared demo board
func Boards(now time.Time) func(*store.Store) error {
	return func(st *store.Store) error {
		owner := Users[0].Actor()

		board, err := st.CreateBoard("Website Redesign", "#3B82F6", owner.ID)
		if err != nil {
			return err
		}
		if _, err := st.ShareBoard(owner, board.ID, Users[1].ID, models.RoleEditor); err != nil {
			return err
		}
		if _, err := st.ShareBoard(owner, board.ID, Users[2].ID, models.RoleViewer); err != nil {
			return err
		}

		design, err := st.AddOrUpdateLabel(owner, board.ID, models.Label{Text: "Design", Color: "#8B5CF6"})
		if err != nil {
			return err
		}
		bug, err := st.AddOrUpdateLabel(owner, board.ID, models.Label{Text: "Bug", Color: "#EF4444"})
		if err != nil {
			return err
		}

		due := func(days int) *time.Time {
			d := now.AddDate(0, 0, days)
			return &d
		}
		tasks := []struct {
			column int
			in     store.TaskInput
		}{
			{0, store.TaskInput{
				Title:     "Draft new landing page",
				LabelIDs:  []string{design.ID},
				Priority:  models.PriorityHigh,
				DueDate:   due(3),
				Assignees: []string{Users[1].ID},
				Reminders: []int{1},
				Checklist: []models.ChecklistItem{{Text: "Hero section"}, {Text: "Pricing table"}},
			}},
			{0, store.TaskInput{
				Title:      "Weekly design review",
				Priority:   models.PriorityMedium,
				DueDate:    due(1),
				Recurrence: models.Recurrence{Frequency: models.FrequencyWeekly, Interval: 1},
			}},
			{1, store.TaskInput{
				Title:     "Fix mobile menu overlap",
				LabelIDs:  []string{bug.ID},
				Priority:  models.PriorityUrgent,
				DueDate:   due(-1),
				Assignees: []string{Users[0].ID},
			}},
			{2, store.TaskInput{
				Title:    "Pick color palette",
				LabelIDs: []string{design.ID},
				Priority: models.PriorityLow,
			}},
		}
		for _, t := range tasks {
			if _, err := st.CreateTask(owner, board.ID, board.Columns[t.column].ID, t.in); err != nil {
				return err
			}
		}
		return nil
	}
}
