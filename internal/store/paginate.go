package store

import "corkboard/pkg/types"

// pageSize is the fixed upper bound on items per page.
const pageSize = 10

// paginate computes one reverse-chronological page over a message view.
// The page holds up to pageSize items ending just before from, walked
// backward (newest first). The returned cursor is from-pageSize; it may go
// non-positive, which the next call answers with an empty page. That means
// exhaustion, never an error.
func paginate(view []*types.Message, from int) ([]*types.Message, int) {
	if from > len(view) {
		from = len(view)
	}
	count := from
	if count > pageSize {
		count = pageSize
	}
	if count < 0 {
		count = 0
	}

	page := make([]*types.Message, 0, count)
	for i := 1; i <= count; i++ {
		page = append(page, view[from-i])
	}
	return page, from - pageSize
}

// Page returns one page of the full log starting just before from.
func (s *Store) Page(from int) ([]*types.Message, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.messages, from)
}

// PageFavourites filters the log to favourite ids, preserving log order,
// then paginates the filtered view from its newest end.
func (s *Store) PageFavourites() ([]*types.Message, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make([]*types.Message, 0, len(s.favourites))
	for _, message := range s.messages {
		if _, ok := s.favSet[message.ID]; ok {
			view = append(view, message)
		}
	}
	return paginate(view, len(view))
}
