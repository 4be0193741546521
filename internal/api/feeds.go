package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/joestump/superheroes/internal/notify"
	"github.com/joestump/superheroes/internal/store"
)

const (
	feedBuffer   = 16
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// feedsAPIHandler pushes store changes and notifications to clients.
type feedsAPIHandler struct {
	store    *store.Store
	hub      *notify.Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func registerFeedRoutes(r chi.Router, s *store.Store, hub *notify.Hub, log *zap.Logger) {
	h := &feedsAPIHandler{
		store: s,
		hub:   hub,
		log:   log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	r.Get("/events", h.Events)
	r.Get("/ws", h.Notifications)
}

// Events streams "state" events after every store change and "notification"
// events for every error raised, as server-sent events.
// GET /api/v1/events
//
// @Summary      Store event stream
// @Description  Server-sent events: "state" carries a StateResponse, "notification" a notification.
// @Tags         Feeds
// @Produce      text/event-stream
// @Success      200
// @Router       /events [get]
func (h *feedsAPIHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "INTERNAL_ERROR")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	notes, cancel := h.hub.Subscribe(feedBuffer)
	defer cancel()
	states := h.store.Watch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := sendEvent(w, flusher, "state", toStateResponse(st)); err != nil {
				h.log.Debug("sse write failed", zap.Error(err))
				return
			}
		case n, ok := <-notes:
			if !ok {
				return
			}
			if err := sendEvent(w, flusher, "notification", n); err != nil {
				h.log.Debug("sse write failed", zap.Error(err))
				return
			}
		}
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// Notifications upgrades to a websocket and writes every notification as a
// JSON text message until the client goes away.
// GET /api/v1/ws
//
// @Summary      Notification websocket
// @Tags         Feeds
// @Success      101
// @Router       /ws [get]
func (h *feedsAPIHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	notes, cancel := h.hub.Subscribe(feedBuffer)
	defer cancel()

	// The read loop only notices the client closing; clients never send.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case n, ok := <-notes:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeTimeout))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(n); err != nil {
				h.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
