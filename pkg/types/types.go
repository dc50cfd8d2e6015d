package types

// MessageType classifies a log entry. Text messages carry their content in
// the Message field; attachment messages carry the stored file name instead.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeAudio MessageType = "audio"
	MessageTypeFile  MessageType = "file"
)

// Category identifies one of the five attachment indices.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
	CategoryFile  Category = "file"
	CategoryLinks Category = "links"
)

// Categories returns the fixed category set in its canonical order.
func Categories() []Category {
	return []Category{CategoryImage, CategoryVideo, CategoryAudio, CategoryFile, CategoryLinks}
}

// Message is one unit of log content.
// ARCHITECTURAL DISCOVERY: insertion order equals chronological order equals
// display order, so the struct carries no ordering field beyond Date.
type Message struct {
	ID      string      `json:"id"`
	Message string      `json:"message"`
	Date    int64       `json:"date"` // milliseconds since epoch
	Type    MessageType `json:"type"`
	Geo     string      `json:"geo,omitempty"`
	Pinned  bool        `json:"pinned,omitempty"`
}

// AttachmentRecord is a named entry in a category pointing back to the
// message that introduced it. MessageID is a lookup key, not an ownership
// link; the store keeps both sides consistent on delete.
type AttachmentRecord struct {
	Name      string `json:"name"`
	MessageID string `json:"messageId"`
}

// SideSummary maps each category key, plus "favourites", to its current
// count. Sent with most responses so clients can render badge counts
// without a separate query.
type SideSummary map[string]int

// EventKind tags every envelope crossing the WebSocket channel.
type EventKind string

// Inbound event kinds. Each maps to exactly one router handler.
const (
	EventLoad            EventKind = "load"
	EventStorage         EventKind = "storage"
	EventSelect          EventKind = "select"
	EventMessage         EventKind = "message"
	EventDelete          EventKind = "delete"
	EventFavourite       EventKind = "favourite"
	EventFavouriteRemove EventKind = "favouriteRemove"
	EventFavouritesLoad  EventKind = "favouritesLoad"
	EventPin             EventKind = "pin"
	EventUnpin           EventKind = "unpin"
)

// Outbound-only event kinds.
const (
	EventDatabase EventKind = "database"
	EventText     EventKind = "text"
	EventFile     EventKind = "file"
	EventError    EventKind = "error"
)
