package interfaces

// EventDispatcher applies one inbound envelope to the shared store on behalf
// of the connection that sent it. Read-style events reply on conn; mutation
// events broadcast through the hub.
type EventDispatcher interface {
	Dispatch(conn Connection, data []byte) error
}
