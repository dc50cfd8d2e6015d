package router

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"corkboard/internal/store"
	"corkboard/pkg/interfaces"
	"corkboard/pkg/telemetry"
	"corkboard/pkg/types"
)

// Router dispatches inbound event envelopes to their handlers. It is
// stateless apart from the serialization mutex in Dispatch: each event is an
// independent transaction against the shared store.
// ARCHITECTURAL DISCOVERY: read-style events reply only to the requesting
// connection; mutation events broadcast through the hub.
type Router struct {
	mu    sync.Mutex // one event turn at a time
	store *store.Store
	hub   interfaces.Broadcaster
	files interfaces.FileRemover
}

// NewRouter creates an event router over the shared store. files may be nil
// when no physical-file capability exists (tests).
func NewRouter(st *store.Store, hub interfaces.Broadcaster, files interfaces.FileRemover) *Router {
	return &Router{
		store: st,
		hub:   hub,
		files: files,
	}
}

// Dispatch decodes one envelope and routes it to the matching handler.
// FUNCTIONAL DISCOVERY: the switch covers every inbound event kind
// exhaustively; an unrecognized kind is a rejected operation, not a dropped
// frame.
func (r *Router) Dispatch(conn interfaces.Connection, data []byte) error {
	var envelope types.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	telemetry.EventsProcessed.WithLabelValues(string(envelope.Event)).Inc()

	if !types.IsInboundEvent(envelope.Event) {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, envelope.Event)
	}

	// Each event executes to completion before the next one starts, which
	// is what keeps the cross-index invariants observable as atomic.
	r.mu.Lock()
	defer r.mu.Unlock()

	switch envelope.Event {
	case types.EventLoad:
		return r.handleLoad(conn, envelope.Message)
	case types.EventStorage:
		return r.handleStorage(conn, envelope.Message)
	case types.EventSelect:
		return r.handleSelect(conn, envelope.Message)
	case types.EventMessage:
		return r.handleMessage(envelope.Message)
	case types.EventDelete:
		return r.handleDelete(envelope.Message)
	case types.EventFavourite:
		return r.handleFavourite(envelope.Message)
	case types.EventFavouriteRemove:
		return r.handleFavouriteRemove(envelope.Message)
	case types.EventFavouritesLoad:
		return r.handleFavouritesLoad(conn)
	case types.EventPin:
		return r.handlePin(envelope.Message)
	case types.EventUnpin:
		return r.handleUnpin(envelope.Message)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, envelope.Event)
	}
}

// handleLoad answers a pagination query over the full log. A missing, zero,
// or malformed position starts from the newest message; any other position
// is honored as-is, so a resubmitted negative cursor gets the empty page
// that signals exhaustion.
func (r *Router) handleLoad(conn interfaces.Connection, raw json.RawMessage) error {
	from := r.store.Len()
	if position, ok := decodePosition(raw); ok && position != 0 {
		from = position
	}

	page, next := r.store.Page(from)
	return conn.WriteJSON(types.PageResponse{
		Event:         types.EventDatabase,
		DB:            page,
		Favourites:    r.store.Favourites(),
		PinnedMessage: r.store.FindPinned(),
		Side:          r.store.SideCounts(),
		Position:      next,
	})
}

// handleStorage answers a category-listing query verbatim.
func (r *Router) handleStorage(conn interfaces.Connection, raw json.RawMessage) error {
	category, err := decodeCategory(raw)
	if err != nil {
		return err
	}
	records, err := r.store.Category(category)
	if err != nil {
		return err
	}
	return conn.WriteJSON(types.StorageResponse{
		Event:    types.EventStorage,
		Category: category,
		Data:     records,
	})
}

// handleSelect answers a single-message lookup.
func (r *Router) handleSelect(conn interfaces.Connection, raw json.RawMessage) error {
	id, err := decodeID(raw)
	if err != nil {
		return err
	}
	message, err := r.store.FindByID(id)
	if err != nil {
		return err
	}
	return conn.WriteJSON(types.SelectResponse{
		Event:   types.EventSelect,
		Message: message,
	})
}

// handleMessage creates a text message and announces it to every client.
func (r *Router) handleMessage(raw json.RawMessage) error {
	var payload types.TextPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	message, side := r.store.CreateTextMessage(payload.Text, payload.Geo)
	telemetry.MessagesCreated.Inc()

	r.hub.Broadcast(types.MessageBroadcast{
		Message: *message,
		Event:   types.EventText,
		Side:    side,
	})
	return nil
}

// handleDelete cascades the delete through every index, unlinks backing
// files best-effort, and announces the removal.
func (r *Router) handleDelete(raw json.RawMessage) error {
	id, err := decodeID(raw)
	if err != nil {
		return err
	}
	removed, side, err := r.store.DeleteMessage(id)
	if err != nil {
		return err
	}
	telemetry.MessagesDeleted.Inc()

	// Unlink failures stay invisible to clients; the file may already be
	// gone.
	if r.files != nil && len(removed) > 0 {
		r.files.Remove(removed)
	}

	r.hub.Broadcast(types.IDBroadcast{ID: id, Event: types.EventDelete, Side: side})
	return nil
}

func (r *Router) handleFavourite(raw json.RawMessage) error {
	id, err := decodeID(raw)
	if err != nil {
		return err
	}
	side, err := r.store.Favourite(id)
	if err != nil {
		return err
	}
	r.hub.Broadcast(types.IDBroadcast{ID: id, Event: types.EventFavourite, Side: side})
	return nil
}

func (r *Router) handleFavouriteRemove(raw json.RawMessage) error {
	id, err := decodeID(raw)
	if err != nil {
		return err
	}
	side, err := r.store.Unfavourite(id)
	if err != nil {
		return err
	}
	r.hub.Broadcast(types.IDBroadcast{ID: id, Event: types.EventFavouriteRemove, Side: side})
	return nil
}

// handleFavouritesLoad paginates the favourites-filtered view of the log,
// always starting from its newest end.
func (r *Router) handleFavouritesLoad(conn interfaces.Connection) error {
	page, next := r.store.PageFavourites()
	return conn.WriteJSON(types.PageResponse{
		Event:         types.EventFavouritesLoad,
		DB:            page,
		Favourites:    r.store.Favourites(),
		PinnedMessage: r.store.FindPinned(),
		Side:          r.store.SideCounts(),
		Position:      next,
	})
}

func (r *Router) handlePin(raw json.RawMessage) error {
	id, err := decodeID(raw)
	if err != nil {
		return err
	}
	pinned, err := r.store.SetPinned(id)
	if err != nil {
		return err
	}
	r.hub.Broadcast(types.PinBroadcast{PinnedMessage: pinned, Event: types.EventPin})
	return nil
}

// handleUnpin broadcasts only the id; no side summary accompanies unpin.
func (r *Router) handleUnpin(raw json.RawMessage) error {
	id, err := decodeID(raw)
	if err != nil {
		return err
	}
	if err := r.store.ClearPinned(id); err != nil {
		return err
	}
	r.hub.Broadcast(types.IDBroadcast{ID: id, Event: types.EventUnpin})
	return nil
}

// decodeID extracts the message-id payload shared by select, delete,
// favourite, favouriteRemove, pin, and unpin.
func decodeID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if id == "" {
		return "", fmt.Errorf("%w: empty message id", ErrInvalidPayload)
	}
	return id, nil
}

func decodeCategory(raw json.RawMessage) (types.Category, error) {
	var category types.Category
	if err := json.Unmarshal(raw, &category); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return category, nil
}

// decodePosition tolerates absent, null, or malformed positions by falling
// back to the default start; load never fails on a bad cursor.
func decodePosition(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var position int
	if err := json.Unmarshal(raw, &position); err != nil {
		log.Printf("Ignoring malformed load position %q: %v", raw, err)
		return 0, false
	}
	return position, true
}
