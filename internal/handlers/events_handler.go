package handlers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projectpulse/internal/realtime"
)

// EventsHandler exposes the per-project websocket feed.
type EventsHandler struct {
	hub *realtime.EventHub
}

func NewEventsHandler(hub *realtime.EventHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Subscribe upgrades GET /ws/projects/:id and streams project events
// until the client goes away. Inbound messages are drained and ignored,
// the read loop only exists to notice the close.
func (h *EventsHandler) Subscribe(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)

	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Printf("[events][subscribe][err] upgrade project=%d user=%d: %v", projectID, userID, err)
		return
	}
	log.Printf("[events][subscribe] project=%d user=%d", projectID, userID)

	h.hub.Subscribe(projectID, conn)
	defer func() {
		h.hub.Unsubscribe(projectID, conn)
		conn.Close()
		log.Printf("[events][unsubscribe] project=%d user=%d", projectID, userID)
	}()

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			if err != io.EOF {
				log.Printf("[events][read][err] project=%d user=%d: %v", projectID, userID, err)
			}
			return
		}
	}
}
