package types

// IsValidCategory reports whether the key names one of the five fixed
// attachment categories.
func IsValidCategory(category Category) bool {
	switch category {
	case CategoryImage, CategoryVideo, CategoryAudio, CategoryFile, CategoryLinks:
		return true
	default:
		return false
	}
}

// IsInboundEvent reports whether the kind is one a client may submit.
func IsInboundEvent(event EventKind) bool {
	switch event {
	case EventLoad, EventStorage, EventSelect, EventMessage, EventDelete,
		EventFavourite, EventFavouriteRemove, EventFavouritesLoad,
		EventPin, EventUnpin:
		return true
	default:
		return false
	}
}
