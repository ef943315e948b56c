package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"stopwatch-widget/internal/widget"
)

const (
	eventState = "state"
	eventTick  = "tick"
	eventError = "error"
)

// StreamEvent describes websocket payloads pushed to the widget.
type StreamEvent struct {
	Type      string       `json:"type"`
	Kind      string       `json:"kind,omitempty"`
	Display   string       `json:"display,omitempty"`
	View      *widget.View `json:"view,omitempty"`
	Message   string       `json:"message,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// StopwatchNotifier keeps track of connected widgets and broadcasts stopwatch events.
type StopwatchNotifier struct {
	mu        sync.Mutex
	clients   map[*wsClient]struct{}
	lastState *StreamEvent
}

// NewStopwatchNotifier constructs a notifier instance.
func NewStopwatchNotifier() *StopwatchNotifier {
	return &StopwatchNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and replays the last state to it.
func (n *StopwatchNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{id: uuid.NewString(), conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	state := n.lastState
	n.mu.Unlock()

	if state != nil {
		_ = client.writeJSON(*state)
	}
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *StopwatchNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the supplied event to all registered websocket clients.
func (n *StopwatchNotifier) Broadcast(event StreamEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	if event.Type == eventState {
		snapshot := event
		n.lastState = &snapshot
	}

	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

// ClientCount reports how many widgets are connected.
func (n *StopwatchNotifier) ClientCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients)
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}

// LastState returns a copy of the most recent state event.
func (n *StopwatchNotifier) LastState() *StreamEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastState == nil {
		return nil
	}
	copy := *n.lastState
	return &copy
}
