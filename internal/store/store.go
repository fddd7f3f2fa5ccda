// Package store is the single source of truth for boards, columns and tasks.
//
// Every exported mutation runs inside one critical section and either
// commits completely or returns an error with the state untouched. Values
// handed out are deep copies, so callers cannot bypass the store.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/permissions"
)

type EventType string

const (
	EventBoardCreated    EventType = "board.created"
	EventBoardUpdated    EventType = "board.updated"
	EventBoardDeleted    EventType = "board.deleted"
	EventColumnsChanged  EventType = "columns.changed"
	EventLabelsChanged   EventType = "labels.changed"
	EventTaskCreated     EventType = "task.created"
	EventTaskUpdated     EventType = "task.updated"
	EventTaskDeleted     EventType = "task.deleted"
	EventTaskMoved       EventType = "task.moved"
	EventCommentAdded    EventType = "comment.added"
	EventReactionToggled EventType = "reaction.toggled"
	EventReportsChanged  EventType = "reports.changed"
)

// Event describes a committed mutation
type Event struct {
	Type    EventType `json:"type"`
	BoardID string    `json:"boardId"`
	TaskID  string    `json:"taskId,omitempty"`
	ActorID string    `json:"actorId"`
	At      time.Time `json:"at"`
}

// EventSink receives events after the mutation has been committed
type EventSink interface {
	Publish(Event)
}

// Sinks fans events out to several sinks in order
type Sinks []EventSink

func (s Sinks) Publish(e Event) {
	for _, sink := range s {
		sink.Publish(e)
	}
}

type Option func(*Store)

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator overrides uuid generation
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.genID = gen }
}

// WithEventSink registers the receiver of committed mutation events
func WithEventSink(sink EventSink) Option {
	return func(s *Store) { s.sink = sink }
}

type Store struct {
	mu sync.Mutex

	boards     map[string]*models.Board
	boardOrder []string
	tasks      map[string]*models.Task
	reports    map[string]*models.ScheduledReport

	clock    func() time.Time
	genID    func() string
	lastTick time.Time
	sink     EventSink
}

func New(opts ...Option) *Store {
	s := &Store{
		boards:  make(map[string]*models.Board),
		tasks:   make(map[string]*models.Task),
		reports: make(map[string]*models.ScheduledReport),
		clock:   func() time.Time { return time.Now().UTC() },
		genID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// txn collects the events of one critical section
type txn struct {
	s      *Store
	actor  models.Actor
	events []Event
}

func (s *Store) write(actor models.Actor, fn func(tx *txn) error) error {
	s.mu.Lock()
	tx := &txn{s: s, actor: actor}
	err := fn(tx)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if s.sink != nil {
		for _, e := range tx.events {
			s.sink.Publish(e)
		}
	}
	return nil
}

func (tx *txn) emit(typ EventType, boardID, taskID string) {
	tx.events = append(tx.events, Event{
		Type:    typ,
		BoardID: boardID,
		TaskID:  taskID,
		ActorID: tx.actor.ID,
		At:      tx.s.lastTick,
	})
}

// require checks the actor's role on the board
func (tx *txn) require(board *models.Board, min models.Role) error {
	return permissions.Require(tx.actor.ID, *board, min)
}

func (s *Store) newID() string {
	return s.genID()
}

// tick returns a strictly increasing timestamp
func (s *Store) tick() time.Time {
	now := s.clock()
	if !now.After(s.lastTick) {
		now = s.lastTick.Add(time.Nanosecond)
	}
	s.lastTick = now
	return now
}

func (s *Store) board(id string) (*models.Board, error) {
	b, ok := s.boards[id]
	if !ok {
		return nil, notFound("board", id)
	}
	return b, nil
}

func (s *Store) task(id string) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, notFound("task", id)
	}
	return t, nil
}

// column finds a column anywhere in the store
func (s *Store) column(id string) (*models.Board, *models.Column, int, error) {
	for _, bid := range s.boardOrder {
		b := s.boards[bid]
		if c, i := b.Column(id); c != nil {
			return b, c, i, nil
		}
	}
	return nil, nil, -1, notFound("column", id)
}

// Board returns a copy of the board
func (s *Store) Board(id string) (models.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.board(id)
	if err != nil {
		return models.Board{}, err
	}
	return b.Clone(), nil
}

// Boards returns copies of all boards in creation order
func (s *Store) Boards() []models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardsLocked()
}

func (s *Store) boardsLocked() []models.Board {
	out := make([]models.Board, 0, len(s.boardOrder))
	for _, id := range s.boardOrder {
		out = append(out, s.boards[id].Clone())
	}
	return out
}

// Task returns a copy of the task
func (s *Store) Task(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.task(id)
	if err != nil {
		return models.Task{}, err
	}
	return t.Clone(), nil
}

// Tasks returns copies of the board's tasks, or of all tasks when boardID is
// empty, ordered by creation time.
func (s *Store) Tasks(boardID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasksLocked(boardID)
}

func (s *Store) tasksLocked(boardID string) []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if boardID == "" || t.BoardID == boardID {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// State is a serializable copy of the whole store
type State struct {
	Boards  []models.Board           `json:"boards"`
	Tasks   []models.Task            `json:"tasks"`
	Reports []models.ScheduledReport `json:"reports"`
}

// Snapshot returns a deep copy of the whole store
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Boards: s.boardsLocked(),
		Tasks:  s.tasksLocked(""),
	}
	st.Reports = make([]models.ScheduledReport, 0, len(s.reports))
	for _, r := range s.reports {
		st.Reports = append(st.Reports, r.Clone())
	}
	sort.Slice(st.Reports, func(i, j int) bool { return st.Reports[i].ID < st.Reports[j].ID })
	return st
}

// Load replaces the store content. The state is checked against the
// column membership invariant first and rejected as a whole if it fails.
func (s *Store) Load(st State) error {
	next := New()
	for _, b := range st.Boards {
		b := normalizeBoard(b.Clone())
		next.boards[b.ID] = &b
		next.boardOrder = append(next.boardOrder, b.ID)
	}
	for _, t := range st.Tasks {
		t := normalizeTask(t.Clone())
		next.tasks[t.ID] = &t
	}
	for _, r := range st.Reports {
		r := r.Clone()
		next.reports[r.ID] = &r
	}
	if err := next.checkInvariants(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = next.boards
	s.boardOrder = next.boardOrder
	s.tasks = next.tasks
	s.reports = next.reports
	return nil
}

func normalizeBoard(b models.Board) models.Board {
	if b.SharedWith == nil {
		b.SharedWith = []models.Share{}
	}
	if b.Labels == nil {
		b.Labels = []models.Label{}
	}
	if b.Columns == nil {
		b.Columns = []models.Column{}
	}
	for i := range b.Columns {
		if b.Columns[i].TaskIDs == nil {
			b.Columns[i].TaskIDs = []string{}
		}
	}
	return b
}

func normalizeTask(t models.Task) models.Task {
	if t.Recurrence.Frequency == "" {
		t.Recurrence.Frequency = models.FrequencyNone
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	return t
}
