package interfaces

// Broadcaster fans a serialized event out to every connected client.
// A failing individual send must not abort delivery to the rest.
type Broadcaster interface {
	Broadcast(v interface{})
}

// FileRemover is the physical-file capability the router calls into when a
// delete cascade needs backing files unlinked. Implementations are
// best-effort: a missing file never fails the user-visible delete.
type FileRemover interface {
	Remove(names []string)
}
