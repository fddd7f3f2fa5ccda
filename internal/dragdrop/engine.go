package dragdrop

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/permissions"
)

// Store is the part of the board store the engine needs
type Store interface {
	Board(id string) (models.Board, error)
	ApplyTransform(actor models.Actor, t Transform) error
}

type Engine struct {
	store  Store
	logger zerolog.Logger
}

func NewEngine(store Store, logger zerolog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Drop applies a finished gesture. Viewers are refused before the store is
// touched. applied is false for drops that need no change.
func (e *Engine) Drop(actor models.Actor, g Gesture) (applied bool, err error) {
	t, ok := Reorder(g)
	if !ok {
		e.logger.Debug().
			Str("item_id", g.ItemID).
			Msg("drop discarded")
		return false, nil
	}

	board, err := e.store.Board(t.BoardID)
	if err != nil {
		return false, err
	}
	if !permissions.CanEdit(permissions.Resolve(actor.ID, board)) {
		return false, permissions.ErrForbidden
	}

	if err := e.store.ApplyTransform(actor, t); err != nil {
		return false, fmt.Errorf("failed to apply %s: %w", t.Op, err)
	}

	e.logger.Debug().
		Str("op", string(t.Op)).
		Str("board_id", t.BoardID).
		Str("item_id", t.ItemID).
		Msg("drop applied")
	return true, nil
}
