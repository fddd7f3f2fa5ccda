// Package notify streams committed store events to websocket clients.
// A client only receives events of boards it can read.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yukikurage/taskboard-api/internal/store"
)

// ErrHubStopped is returned by Serve once the hub has shut down
var ErrHubStopped = errors.New("notify hub stopped")

// AccessFunc reports whether the user may see events of the board
type AccessFunc func(userID, boardID string) bool

// Message is the envelope written to clients
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of active clients and fans events out to them
type Hub struct {
	clients    map[*Client]bool
	events     chan store.Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	access   AccessFunc
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHub creates a hub. An empty origins list, or one containing "*",
// accepts any origin.
func NewHub(access AccessFunc, origins []string, logger zerolog.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		events:     make(chan store.Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		access:     access,
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(origins)}
	return h
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(allowed) == 0 || origin == "" || allowed[origin]
	}
}

// Publish queues an event. It never blocks the store; events are dropped
// when the queue is full.
func (h *Hub) Publish(e store.Event) {
	select {
	case h.events <- e:
	default:
		h.logger.Warn().
			Str("type", string(e.Type)).
			Str("board_id", e.BoardID).
			Msg("event queue full, dropping event")
	}
}

// Serve upgrades the request and attaches the connection to the hub
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := newClient(h, conn, userID, 256)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// Run is the hub's main loop. It returns when ctx is done, dropping every
// client. Run must be called once.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return nil
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Str("user_id", client.userID).Msg("client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug().Str("user_id", client.userID).Msg("client disconnected")
			}
		case e := <-h.events:
			h.dispatch(e)
		}
	}
}

func (h *Hub) dispatch(e store.Event) {
	payload, err := json.Marshal(Message{Type: string(e.Type), Data: e})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal event")
		return
	}

	allowed := make(map[string]bool)
	for client := range h.clients {
		ok, seen := allowed[client.userID]
		if !seen {
			// a deleted board has no members left to ask
			ok = e.Type == store.EventBoardDeleted || h.access(client.userID, e.BoardID)
			allowed[client.userID] = ok
		}
		if !ok {
			continue
		}
		select {
		case client.send <- payload:
		default:
			h.logger.Warn().Str("user_id", client.userID).Msg("client send buffer full, removing client")
			h.drop(client)
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.done)
}

// leave detaches a client; it gives up when ctx ends so a stopped hub
// does not block the caller
func (h *Hub) leave(ctx context.Context, c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	case <-ctx.Done():
	}
}
