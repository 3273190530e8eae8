// Package messaging provides the websocket broadcaster that keeps open
// dashboard tabs informed of editor activity (saves, publishes, deletes).
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// EditorEvent is one activity notification pushed to dashboard clients.
type EditorEvent struct {
	Type      string    `json:"type"` // page_saved | page_published | page_unpublished | page_deleted
	PageID    string    `json:"pageId"`
	Title     string    `json:"title,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster fans editor events out to connected websocket clients.
type Broadcaster struct {
	clients       map[*websocket.Conn]bool
	mu            sync.Mutex
	logger        *logging.ChanneledLogger
	writeDeadline time.Duration
}

// NewBroadcaster creates an editor activity broadcaster.
func NewBroadcaster(logger *logging.ChanneledLogger, writeDeadline time.Duration) *Broadcaster {
	return &Broadcaster{
		clients:       make(map[*websocket.Conn]bool),
		logger:        logger,
		writeDeadline: writeDeadline,
	}
}

// AddClient registers a websocket connection for event delivery.
func (b *Broadcaster) AddClient(conn *websocket.Conn) {
	b.mu.Lock()
	b.clients[conn] = true
	count := len(b.clients)
	b.mu.Unlock()
	b.logger.Realtime().Debug("Editor feed client connected", "clients", count)
}

// RemoveClient unregisters and closes a websocket connection.
func (b *Broadcaster) RemoveClient(conn *websocket.Conn) {
	b.mu.Lock()
	if _, ok := b.clients[conn]; ok {
		delete(b.clients, conn)
		conn.Close()
	}
	count := len(b.clients)
	b.mu.Unlock()
	b.logger.Realtime().Debug("Editor feed client disconnected", "clients", count)
}

// Broadcast delivers an event to every connected client. Clients whose
// writes fail are dropped.
func (b *Broadcaster) Broadcast(event EditorEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Realtime().Error("Failed to encode editor event", "error", err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		conn.SetWriteDeadline(time.Now().Add(b.writeDeadline))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.logger.Realtime().Debug("Dropping stale editor feed client", "error", err.Error())
			delete(b.clients, conn)
			conn.Close()
		}
	}

	b.logger.Realtime().Debug("Editor event broadcast",
		"type", event.Type, "pageId", event.PageID, "clients", len(b.clients))
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// CloseAll disconnects every client, used during shutdown.
func (b *Broadcaster) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}
