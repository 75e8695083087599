package realtime

import (
	"sync"
	"time"
)

// Event types pushed to project subscribers.
const (
	EventTaskCreated  = "task.created"
	EventTaskUpdated  = "task.updated"
	EventTaskStatus   = "task.status"
	EventTaskArchived = "task.archived"
	EventTimeLogAdded = "timelog.added"
)

// Event is the live-update envelope. Delivery is fire-and-forget: a slow
// or dead subscriber never affects the request that produced the event.
type Event struct {
	Type      string      `json:"type"`
	ProjectID int64       `json:"project_id"`
	At        time.Time   `json:"at"`
	Payload   interface{} `json:"payload"`
}

// EventHub fans project events out to websocket subscribers.
type EventHub struct {
	mu       sync.RWMutex
	projects map[int64]map[*Conn]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		projects: make(map[int64]map[*Conn]struct{}),
	}
}

func (h *EventHub) Subscribe(projectID int64, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.projects[projectID] == nil {
		h.projects[projectID] = make(map[*Conn]struct{})
	}
	h.projects[projectID][conn] = struct{}{}
}

func (h *EventHub) Unsubscribe(projectID int64, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.projects[projectID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.projects, projectID)
		}
	}
	_ = conn.Close()
}

// Publish broadcasts the event to every subscriber of its project.
// Nil-safe so handlers can run without a hub wired.
func (h *EventHub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.projects[ev.ProjectID] {
		_ = conn.WriteJSON(ev)
	}
}
