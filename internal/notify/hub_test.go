package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/taskboard-api/internal/store"
)

func boardAccess(members map[string][]string) AccessFunc {
	return func(userID, boardID string) bool {
		for _, u := range members[boardID] {
			if u == userID {
				return true
			}
		}
		return false
	}
}

func startHub(t *testing.T, access AccessFunc) *Hub {
	t.Helper()
	h := NewHub(access, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func receive(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case raw := <-ch:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHub_FiltersByBoardAccess(t *testing.T) {
	h := startHub(t, boardAccess(map[string][]string{"b1": {"alice"}}))

	alice := newClient(h, nil, "alice", 4)
	bob := newClient(h, nil, "bob", 4)
	h.register <- alice
	h.register <- bob

	h.Publish(store.Event{Type: store.EventTaskCreated, BoardID: "b1", TaskID: "t1"})

	msg := receive(t, alice.send)
	assert.Equal(t, string(store.EventTaskCreated), msg.Type)

	h.Publish(store.Event{Type: store.EventBoardDeleted, BoardID: "b1"})
	assert.Equal(t, string(store.EventBoardDeleted), receive(t, alice.send).Type)
	// bob only sees the deletion
	assert.Equal(t, string(store.EventBoardDeleted), receive(t, bob.send).Type)
}

func TestHub_Websocket(t *testing.T) {
	h := startHub(t, func(string, string) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r, "alice")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	var pong Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong.Type)

	h.Publish(store.Event{Type: store.EventColumnsChanged, BoardID: "b1"})
	var event Message
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, string(store.EventColumnsChanged), event.Type)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t, func(string, string) bool { return true })

	slow := newClient(h, nil, "alice", 1)
	h.register <- slow

	h.Publish(store.Event{Type: store.EventTaskCreated, BoardID: "b1"})
	h.Publish(store.Event{Type: store.EventTaskUpdated, BoardID: "b1"})

	select {
	case <-slow.done:
	case <-time.After(2 * time.Second):
		t.Fatal("slow client was not dropped")
	}

	// a ping answered after the drop must not touch a closed channel
	assert.NotPanics(t, func() {
		slow.queue([]byte(`{"type":"pong"}`))
		slow.queue([]byte(`{"type":"pong"}`))
	})
}

func TestHub_ServeAfterShutdown(t *testing.T) {
	h := NewHub(func(string, string) bool { return true }, nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.Run(ctx))

	served := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served <- h.Serve(w, r, "alice")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case err := <-served:
		assert.ErrorIs(t, err, ErrHubStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve blocked on a stopped hub")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:5173"})

	r := httptest.NewRequest("GET", "/api/ws", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, check(r))
	r.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(r))

	assert.True(t, originChecker([]string{"*"})(r))
}
