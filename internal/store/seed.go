package store

import (
	"time"

	"corkboard/pkg/types"
)

// NewSeeded creates a store pre-filled with a small demo dataset: a few text
// messages (one with coordinates, one with extractable links), one
// attachment per media category, and a handful of favourites. Seeding goes
// through the same internal append paths as live traffic, so every invariant
// holds by construction.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UnixMilli()

	s.seedText(now-500000000, "Welcome to the board", "")
	s.seedText(now-450000000, "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Nam pellentesque massa vitae libero luctus, et luctus orci consequat.", "")
	notes := s.seedText(now-400000000, "Remember to water the plants", "")
	s.seedText(now-350000000, "Meet by the fountain at noon", "55.692493, 37.607834")
	reading := s.seedText(now-300000000, "Worth a read: https://go.dev/blog, http://example.com", "")
	s.seedAttachment(now-250000000, "bird.jpg", types.CategoryImage)
	s.seedAttachment(now-200000000, "morning-chorus.wav", types.CategoryAudio)
	gulls := s.seedAttachment(now-150000000, "gulls-by-the-river.mp4", types.CategoryVideo)
	s.seedAttachment(now-100000000, "field-guide.pdf", types.CategoryFile)

	for _, id := range []string{notes.ID, reading.ID, gulls.ID} {
		s.favSet[id] = struct{}{}
		s.favourites = append(s.favourites, id)
	}

	return s
}

func (s *Store) seedText(date int64, text, geo string) *types.Message {
	message := &types.Message{
		ID:      newMessageID(),
		Message: text,
		Date:    date,
		Type:    types.MessageTypeText,
		Geo:     geo,
	}
	s.messages = append(s.messages, message)
	for _, link := range extractLinks(text) {
		s.categories[types.CategoryLinks] = append(s.categories[types.CategoryLinks],
			types.AttachmentRecord{Name: link, MessageID: message.ID})
	}
	return message
}

func (s *Store) seedAttachment(date int64, name string, category types.Category) *types.Message {
	message := &types.Message{
		ID:      newMessageID(),
		Message: name,
		Date:    date,
		Type:    types.MessageType(category),
	}
	s.messages = append(s.messages, message)
	s.categories[category] = append(s.categories[category],
		types.AttachmentRecord{Name: name, MessageID: message.ID})
	return message
}
