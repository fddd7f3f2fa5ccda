package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/taskboard-api/internal/calendar"
	"github.com/yukikurage/taskboard-api/internal/models"
)

func day(d int) *time.Time {
	t := time.Date(2024, 5, d, 10, 0, 0, 0, time.UTC)
	return &t
}

func fixture() ([]models.Task, []models.Board) {
	tasks := []models.Task{
		{ID: "t1", BoardID: "b1", ColumnID: "c1", Title: "Write docs", Priority: models.PriorityLow, LabelIDs: []string{"l1"}, DueDate: day(3)},
		{ID: "t2", BoardID: "b1", ColumnID: "c2", Title: "Fix login", Description: "Docs mention SSO", Priority: models.PriorityUrgent, LabelIDs: []string{"l1", "l2"}, DueDate: day(1)},
		{ID: "t3", BoardID: "b1", ColumnID: "c1", Title: "Archive me", Priority: models.PriorityHigh, IsArchived: true},
		{ID: "t4", BoardID: "b1", ColumnID: "c1", Title: "Plan sprint", Priority: models.PriorityMedium, DueDate: day(1)},
		{ID: "t5", BoardID: "b2", ColumnID: "c9", Title: "Other board", Priority: models.PriorityLow},
	}
	boards := []models.Board{{
		ID: "b1",
		Columns: []models.Column{
			{ID: "c1", BoardID: "b1", TaskIDs: []string{"t4", "t1", "t3"}},
			{ID: "c2", BoardID: "b1", TaskIDs: []string{"t2"}},
		},
	}}
	return tasks, boards
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestProject_BoardViewFollowsColumns(t *testing.T) {
	tasks, boards := fixture()
	got := Project(tasks, boards, Query{BoardID: "b1", View: ViewBoard, Sort: Sort{Field: SortTitle}})
	assert.Equal(t, []string{"t4", "t1", "t2"}, ids(got))
}

func TestProject_ArchivedView(t *testing.T) {
	tasks, boards := fixture()
	got := Project(tasks, boards, Query{BoardID: "b1", View: ViewArchived})
	assert.Equal(t, []string{"t3"}, ids(got))
}

func TestProject_SearchMatchesTitleOrDescription(t *testing.T) {
	tasks, boards := fixture()
	got := Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Search: "DOCS"})
	assert.Equal(t, []string{"t1", "t2"}, ids(got))
}

func TestProject_LabelFilterRequiresEveryLabel(t *testing.T) {
	tasks, boards := fixture()

	got := Project(tasks, boards, Query{BoardID: "b1", View: ViewList, LabelIDs: []string{"l1", "l2"}})
	assert.Equal(t, []string{"t2"}, ids(got))

	got = Project(tasks, boards, Query{BoardID: "b1", View: ViewList, LabelIDs: []string{"l1"}})
	assert.Equal(t, []string{"t1", "t2"}, ids(got))
}

func TestProject_PriorityFilter(t *testing.T) {
	tasks, boards := fixture()

	got := Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Priority: "urgent"})
	assert.Equal(t, []string{"t2"}, ids(got))

	got = Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Priority: PriorityAll})
	assert.Len(t, got, 3)
}

func TestProject_ListSort(t *testing.T) {
	tasks, boards := fixture()

	got := Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Sort: Sort{Field: SortTitle}})
	assert.Equal(t, []string{"t2", "t4", "t1"}, ids(got))

	// lexical: low < medium < urgent
	got = Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Sort: Sort{Field: SortPriority, Desc: true}})
	assert.Equal(t, []string{"t2", "t4", "t1"}, ids(got))

	got = Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Sort: Sort{Field: SortDueDate}})
	assert.Equal(t, []string{"t2", "t4", "t1"}, ids(got))
}

func TestProject_DueDateMissingSortsLast(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", DueDate: nil},
		{ID: "b", DueDate: day(2)},
		{ID: "c", DueDate: day(5)},
	}
	got := Project(tasks, nil, Query{View: ViewList, Sort: Sort{Field: SortDueDate, Desc: true}})
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))

	got = Project(tasks, nil, Query{View: ViewList, Sort: Sort{Field: SortDueDate}})
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	tasks, boards := fixture()
	Project(tasks, boards, Query{BoardID: "b1", View: ViewList, Sort: Sort{Field: SortTitle}})
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, []string{"l1"}, tasks[0].LabelIDs)
}

func TestCalendarBuckets(t *testing.T) {
	tasks, boards := fixture()
	visible := Project(tasks, boards, Query{BoardID: "b1", View: ViewCalendar})

	buckets := CalendarBuckets(visible, calendar.Gregorian{})
	require.Len(t, buckets, 2)
	assert.ElementsMatch(t, []string{"t2", "t4"}, ids(buckets["2024-05-01"]))
	assert.Equal(t, []string{"t1"}, ids(buckets["2024-05-03"]))
}
