package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"corkboard/pkg/interfaces"
	"corkboard/pkg/types"
)

// upgrader settings shared by all handler instances.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Open board: any origin may connect.
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// Options tunes the per-connection transport behavior.
type Options struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// Handler owns the transport lifecycle: upgrade, registration, the read
// loop feeding the dispatcher, and cleanup on disconnect.
type Handler struct {
	registry   *Registry
	dispatcher interfaces.EventDispatcher
	opts       Options
}

// NewHandler creates a WebSocket handler.
func NewHandler(registry *Registry, dispatcher interfaces.EventDispatcher, opts Options) *Handler {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	return &Handler{
		registry:   registry,
		dispatcher: dispatcher,
		opts:       opts,
	}
}

// HandleWebSocket upgrades the request and runs the connection until the
// client goes away.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	wsConn := NewConnection(conn, h.opts.BufferSize, h.opts.WriteTimeout)
	h.registry.Add(wsConn)

	go h.serve(wsConn)
}

// serve is the per-connection read loop. Dispatch failures reject the
// single operation back to the requester; the connection stays up.
func (h *Handler) serve(conn *Connection) {
	defer func() {
		h.registry.Remove(conn)
		_ = conn.Close()
	}()

	if err := conn.conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
	})

	// Heartbeat keeps the read deadline honest across idle stretches.
	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-conn.ctx.Done():
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := h.dispatcher.Dispatch(conn, data); err != nil {
			log.Printf("Event from %s rejected: %v", conn.RemoteAddr(), err)
			if writeErr := conn.WriteJSON(types.ErrorResponse{
				Event: types.EventError,
				Error: err.Error(),
			}); writeErr != nil {
				log.Printf("Failed to send error response to %s: %v", conn.RemoteAddr(), writeErr)
			}
		}
	}
}
