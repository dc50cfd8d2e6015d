package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"corkboard/pkg/types"
)

// Store owns the message log and every index derived from it: the five
// attachment categories, the favourites set, and the pinned-message slot.
// ARCHITECTURAL DISCOVERY: explicit construction instead of module-level
// state. The store is built once, handed to the router, and owned for the
// lifetime of the process.
//
// Invariants maintained by every exported operation:
//   - message ids are unique across the log's lifetime
//   - every attachment record references a live message
//   - at most one message is pinned, tracked by pinnedID
//   - deleting a message cascades through categories and favourites
type Store struct {
	mu         sync.RWMutex
	messages   []*types.Message
	categories map[types.Category][]types.AttachmentRecord
	favourites []string            // insertion-ordered for serialization
	favSet     map[string]struct{} // membership lookup
	pinnedID   string              // empty = nothing pinned
}

// New creates an empty store with all category indices initialized.
func New() *Store {
	categories := make(map[types.Category][]types.AttachmentRecord, len(types.Categories()))
	for _, category := range types.Categories() {
		categories[category] = []types.AttachmentRecord{}
	}
	return &Store{
		messages:   []*types.Message{},
		categories: categories,
		favourites: []string{},
		favSet:     make(map[string]struct{}),
	}
}

// newMessageID returns a time-ordered (V1) UUID so id order follows
// creation order.
func newMessageID() string {
	return uuid.Must(uuid.NewUUID()).String()
}

// CreateTextMessage appends a new text message, registers any URLs found in
// the text as links records, and returns the message with fresh side counts.
func (s *Store) CreateTextMessage(text, geo string) (*types.Message, types.SideSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := &types.Message{
		ID:      newMessageID(),
		Message: text,
		Date:    time.Now().UnixMilli(),
		Type:    types.MessageTypeText,
		Geo:     geo,
	}
	s.messages = append(s.messages, message)

	for _, link := range extractLinks(text) {
		s.categories[types.CategoryLinks] = append(s.categories[types.CategoryLinks],
			types.AttachmentRecord{Name: link, MessageID: message.ID})
	}

	return message, s.sideCountsLocked()
}

// AddAttachment appends a new attachment message and its category record in
// one locked step. This is the delayed ingestion append: it runs only after
// the backing file copy has been confirmed complete, so a failed copy never
// leaves a partial record in any index.
func (s *Store) AddAttachment(name string, category types.Category, geo string) (*types.Message, types.SideSummary, error) {
	if !types.IsValidCategory(category) || category == types.CategoryLinks {
		return nil, nil, ErrUnknownCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	message := &types.Message{
		ID:      newMessageID(),
		Message: name,
		Date:    time.Now().UnixMilli(),
		Type:    types.MessageType(category),
		Geo:     geo,
	}
	s.messages = append(s.messages, message)
	s.categories[category] = append(s.categories[category],
		types.AttachmentRecord{Name: name, MessageID: message.ID})

	return message, s.sideCountsLocked(), nil
}

// FindByID returns the message with the given id.
func (s *Store) FindByID(id string) (*types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if message := s.findLocked(id); message != nil {
		return message, nil
	}
	return nil, ErrMessageNotFound
}

// DeleteMessage removes the message and cascades: every attachment record
// referencing it leaves its category, its favourite entry goes, and the pin
// slot is cleared if it was the pinned message. Returns the attachment names
// that were removed so the caller can unlink backing files.
func (s *Store) DeleteMessage(id string) ([]string, types.SideSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, message := range s.messages {
		if message.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, nil, ErrMessageNotFound
	}

	// Collect removed names across all categories, deduplicated in
	// first-seen order.
	var removed []string
	seen := make(map[string]struct{})
	for _, category := range types.Categories() {
		records := s.categories[category]
		kept := records[:0]
		for _, record := range records {
			if record.MessageID != id {
				kept = append(kept, record)
				continue
			}
			if _, ok := seen[record.Name]; !ok {
				seen[record.Name] = struct{}{}
				removed = append(removed, record.Name)
			}
		}
		s.categories[category] = kept
	}

	if _, ok := s.favSet[id]; ok {
		delete(s.favSet, id)
		s.favourites = removeString(s.favourites, id)
	}

	if s.pinnedID == id {
		s.pinnedID = ""
	}

	s.messages = append(s.messages[:index], s.messages[index+1:]...)

	return removed, s.sideCountsLocked(), nil
}

// Favourite marks the message as a favourite. Referencing an id absent from
// the log is a rejected operation, not a silent index corruption.
func (s *Store) Favourite(id string) (types.SideSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return nil, ErrMessageNotFound
	}
	if _, ok := s.favSet[id]; !ok {
		s.favSet[id] = struct{}{}
		s.favourites = append(s.favourites, id)
	}
	return s.sideCountsLocked(), nil
}

// Unfavourite removes the favourite marker if present. The message itself
// must exist.
func (s *Store) Unfavourite(id string) (types.SideSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return nil, ErrMessageNotFound
	}
	if _, ok := s.favSet[id]; ok {
		delete(s.favSet, id)
		s.favourites = removeString(s.favourites, id)
	}
	return s.sideCountsLocked(), nil
}

// Favourites returns the favourite ids in insertion order.
func (s *Store) Favourites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.favourites))
	copy(out, s.favourites)
	return out
}

// SetPinned pins the target message, clearing any previous pin in the same
// locked step so no observer ever sees two pins.
func (s *Store) SetPinned(id string) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLocked(id)
	if target == nil {
		return nil, ErrMessageNotFound
	}
	if s.pinnedID != "" {
		if current := s.findLocked(s.pinnedID); current != nil {
			current.Pinned = false
		}
	}
	target.Pinned = true
	s.pinnedID = id
	return target, nil
}

// ClearPinned removes the pin marker from the message with that id if it is
// the one currently pinned.
func (s *Store) ClearPinned(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLocked(id)
	if target == nil {
		return ErrMessageNotFound
	}
	if s.pinnedID == id {
		target.Pinned = false
		s.pinnedID = ""
	}
	return nil
}

// FindPinned returns the currently pinned message, or nil.
func (s *Store) FindPinned() *types.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pinnedID == "" {
		return nil
	}
	return s.findLocked(s.pinnedID)
}

// Category returns a snapshot of one category's ordered records.
func (s *Store) Category(category types.Category) ([]types.AttachmentRecord, error) {
	if !types.IsValidCategory(category) {
		return nil, ErrUnknownCategory
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.categories[category]
	out := make([]types.AttachmentRecord, len(records))
	copy(out, records)
	return out, nil
}

// SideCounts returns the per-category and favourites counts.
func (s *Store) SideCounts() types.SideSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sideCountsLocked()
}

// Len returns the current log length, the default pagination start.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *Store) sideCountsLocked() types.SideSummary {
	side := types.SideSummary{"favourites": len(s.favourites)}
	for _, category := range types.Categories() {
		side[string(category)] = len(s.categories[category])
	}
	return side
}

// findLocked does a linear scan; fine at single-room scale.
func (s *Store) findLocked(id string) *types.Message {
	for _, message := range s.messages {
		if message.ID == id {
			return message
		}
	}
	return nil
}

func removeString(list []string, value string) []string {
	kept := list[:0]
	for _, item := range list {
		if item != value {
			kept = append(kept, item)
		}
	}
	return kept
}
