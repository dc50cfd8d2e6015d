package websocket

import (
	"errors"
	"sync"
	"testing"
)

// stubConnection is an in-memory connection double for registry tests.
type stubConnection struct {
	mu      sync.Mutex
	written []interface{}
	failing bool
	closed  bool
}

func (s *stubConnection) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("send failed")
	}
	s.written = append(s.written, v)
	return nil
}

func (s *stubConnection) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubConnection) RemoteAddr() string { return "stub:0" }

func (s *stubConnection) frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.written)
}

func TestRegistryAddRemove(t *testing.T) {
	registry := NewRegistry()
	conn := &stubConnection{}

	registry.Add(conn)
	if registry.Count() != 1 {
		t.Errorf("Expected 1 connection, got %d", registry.Count())
	}

	// Adding twice must not double-count.
	registry.Add(conn)
	if registry.Count() != 1 {
		t.Errorf("Expected 1 connection after repeat add, got %d", registry.Count())
	}

	registry.Remove(conn)
	if registry.Count() != 0 {
		t.Errorf("Expected 0 connections, got %d", registry.Count())
	}

	// Remove is idempotent.
	registry.Remove(conn)
	if registry.Count() != 0 {
		t.Errorf("Expected 0 connections after repeat remove, got %d", registry.Count())
	}
}

func TestRegistryAddNil(t *testing.T) {
	registry := NewRegistry()
	registry.Add(nil)
	registry.Remove(nil)
	if registry.Count() != 0 {
		t.Errorf("Nil connections must be ignored, got %d", registry.Count())
	}
}

func TestRegistryBroadcast(t *testing.T) {
	registry := NewRegistry()
	first := &stubConnection{}
	second := &stubConnection{}
	registry.Add(first)
	registry.Add(second)

	registry.Broadcast(map[string]string{"event": "text"})

	if first.frames() != 1 || second.frames() != 1 {
		t.Errorf("Expected one frame per connection, got %d and %d", first.frames(), second.frames())
	}
}

func TestRegistryBroadcastToleratesFailure(t *testing.T) {
	registry := NewRegistry()
	broken := &stubConnection{failing: true}
	healthy := &stubConnection{}
	registry.Add(broken)
	registry.Add(healthy)

	registry.Broadcast(map[string]string{"event": "text"})

	if healthy.frames() != 1 {
		t.Errorf("Healthy connection must still receive the frame, got %d", healthy.frames())
	}
	// The failing connection stays registered; disconnect handling belongs
	// to the read loop.
	if registry.Count() != 2 {
		t.Errorf("Broadcast must not evict connections, got count %d", registry.Count())
	}
}

func TestRegistryCloseAll(t *testing.T) {
	registry := NewRegistry()
	first := &stubConnection{}
	second := &stubConnection{}
	registry.Add(first)
	registry.Add(second)

	registry.CloseAll()

	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got %d", registry.Count())
	}
	if !first.closed || !second.closed {
		t.Error("Expected every connection to be closed")
	}
}
