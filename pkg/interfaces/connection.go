package interfaces

// Connection represents one connected client from the core's point of view.
// ARCHITECTURAL DISCOVERY: the store and router never touch the WebSocket
// library directly; this boundary is what lets router tests run against
// in-memory mock connections.
type Connection interface {
	// WriteJSON sends a JSON frame to the client (thread-safe).
	WriteJSON(v interface{}) error

	// Close closes the connection and releases its resources.
	Close() error

	// RemoteAddr returns the client's network address for logging.
	RemoteAddr() string
}
