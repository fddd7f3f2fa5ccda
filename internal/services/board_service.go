package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/permissions"
	"github.com/yukikurage/taskboard-api/internal/projection"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/store"
)

// snapshotsKept bounds the snapshot history
const snapshotsKept = 50

// BoardView is a board together with the caller's role on it
type BoardView struct {
	models.Board
	Role models.Role `json:"role"`
}

// BoardService serves read views over the store and keeps a snapshot of
// it in the database.
type BoardService struct {
	store     *store.Store
	snapshots repository.SnapshotRepository
	logger    zerolog.Logger
	dirty     chan struct{}
}

// NewBoardService creates a new BoardService
func NewBoardService(st *store.Store, snapshots repository.SnapshotRepository, logger zerolog.Logger) *BoardService {
	return &BoardService{
		store:     st,
		snapshots: snapshots,
		logger:    logger,
		dirty:     make(chan struct{}, 1),
	}
}

// Store returns the underlying store
func (s *BoardService) Store() *store.Store {
	return s.store
}

// Publish marks the store as changed. Several events between two saves
// collapse into one snapshot.
func (s *BoardService) Publish(store.Event) {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Run saves a snapshot after changes until ctx is done, then flushes any
// pending change.
func (s *BoardService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			select {
			case <-s.dirty:
				s.saveLogged()
			default:
			}
			return nil
		case <-s.dirty:
			s.saveLogged()
		}
	}
}

func (s *BoardService) saveLogged() {
	if err := s.Save(); err != nil {
		s.logger.Error().Err(err).Msg("failed to save board snapshot")
	}
}

// Save writes the current store state as a new snapshot
func (s *BoardService) Save() error {
	st := s.store.Snapshot()
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	snap := &models.BoardSnapshot{
		State:  raw,
		Boards: len(st.Boards),
		Tasks:  len(st.Tasks),
	}
	if err := s.snapshots.Save(snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	if err := s.snapshots.Prune(snapshotsKept); err != nil {
		s.logger.Warn().Err(err).Msg("failed to prune snapshots")
	}
	s.logger.Debug().
		Uint64("snapshot_id", snap.ID).
		Int("boards", snap.Boards).
		Int("tasks", snap.Tasks).
		Msg("board snapshot saved")
	return nil
}

// Restore loads the latest snapshot. Without one, seed fills the empty
// store when it is not nil.
func (s *BoardService) Restore(seed func(*store.Store) error) error {
	snap, err := s.snapshots.Latest()
	switch {
	case errors.Is(err, repository.ErrNoSnapshot):
		if seed == nil {
			return nil
		}
		if err := seed(s.store); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
		s.logger.Info().Msg("store seeded with demo data")
		return s.Save()
	case err != nil:
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	var st store.State
	if err := json.Unmarshal(snap.State, &st); err != nil {
		return fmt.Errorf("failed to decode snapshot %d: %w", snap.ID, err)
	}
	if err := s.store.Load(st); err != nil {
		return fmt.Errorf("snapshot %d is inconsistent: %w", snap.ID, err)
	}
	s.logger.Info().
		Uint64("snapshot_id", snap.ID).
		Int("boards", snap.Boards).
		Int("tasks", snap.Tasks).
		Msg("store restored from snapshot")
	return nil
}

// VisibleBoards lists the boards the user can read
func (s *BoardService) VisibleBoards(userID string) []BoardView {
	boards := permissions.VisibleBoards(userID, s.store.Boards())
	out := make([]BoardView, 0, len(boards))
	for _, b := range boards {
		out = append(out, BoardView{Board: b, Role: permissions.Resolve(userID, b)})
	}
	return out
}

// BoardFor returns the board when the user can read it. Boards the user
// cannot see are reported as not found.
func (s *BoardService) BoardFor(userID, boardID string) (BoardView, error) {
	b, err := s.store.Board(boardID)
	if err != nil {
		return BoardView{}, err
	}
	role := permissions.Resolve(userID, b)
	if !permissions.CanRead(role) {
		return BoardView{}, store.ErrNotFound
	}
	return BoardView{Board: b, Role: role}, nil
}

// Tasks projects the board's tasks for the query
func (s *BoardService) Tasks(userID string, q projection.Query) ([]models.Task, error) {
	view, err := s.BoardFor(userID, q.BoardID)
	if err != nil {
		return nil, err
	}
	return projection.Project(s.store.Tasks(q.BoardID), []models.Board{view.Board}, q), nil
}
