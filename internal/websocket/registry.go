package websocket

import (
	"log"
	"sync"

	"corkboard/pkg/interfaces"
	"corkboard/pkg/telemetry"
)

// Registry tracks the set of connected clients and fans events out to all
// of them. One room, one flat set: there is no per-session partitioning.
type Registry struct {
	mu          sync.RWMutex
	connections map[interfaces.Connection]struct{}
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[interfaces.Connection]struct{}),
	}
}

// Add registers a connection for broadcast delivery.
func (r *Registry) Add(conn interfaces.Connection) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	r.connections[conn] = struct{}{}
	count := len(r.connections)
	r.mu.Unlock()

	telemetry.ConnectionsActive.Set(float64(count))
	log.Printf("Client connected from %s. Total clients: %d", conn.RemoteAddr(), count)
}

// Remove deregisters a connection. Idempotent; safe to call after Close.
func (r *Registry) Remove(conn interfaces.Connection) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	if _, ok := r.connections[conn]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.connections, conn)
	count := len(r.connections)
	r.mu.Unlock()

	telemetry.ConnectionsActive.Set(float64(count))
	log.Printf("Client disconnected from %s. Total clients: %d", conn.RemoteAddr(), count)
}

// Count returns the number of connected clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

// Broadcast delivers one serialized event to every connected client.
// FUNCTIONAL DISCOVERY: delivery is fire-and-forget per client. A slow or
// failed send is logged and never blocks delivery to the rest, and never
// rolls back the mutation that produced the broadcast.
func (r *Registry) Broadcast(v interface{}) {
	r.mu.RLock()
	snapshot := make([]interfaces.Connection, 0, len(r.connections))
	for conn := range r.connections {
		snapshot = append(snapshot, conn)
	}
	r.mu.RUnlock()

	telemetry.BroadcastsSent.Inc()
	for _, conn := range snapshot {
		if err := conn.WriteJSON(v); err != nil {
			log.Printf("Broadcast to %s failed: %v", conn.RemoteAddr(), err)
		}
	}
}

// CloseAll closes every tracked connection during shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	snapshot := make([]interfaces.Connection, 0, len(r.connections))
	for conn := range r.connections {
		snapshot = append(snapshot, conn)
	}
	r.connections = make(map[interfaces.Connection]struct{})
	r.mu.Unlock()

	telemetry.ConnectionsActive.Set(0)
	for _, conn := range snapshot {
		if err := conn.Close(); err != nil {
			log.Printf("Error closing connection from %s: %v", conn.RemoteAddr(), err)
		}
	}
}
