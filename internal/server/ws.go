package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler pushes recognition events to WebSocket clients.
type EventsHandler struct {
	app *app.App
}

// NewEventsHandler creates a new EventsHandler for the given app.
func NewEventsHandler(a *app.App) *EventsHandler {
	return &EventsHandler{app: a}
}

// ServeHTTP upgrades the connection and forwards events until the
// client disconnects.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.app.Subscribe()
	defer unsubscribe()

	// Drain client messages to notice the disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
