package types

import "encoding/json"

// Envelope is the inbound wire frame: {event, message}. The payload stays
// raw until the router knows which event kind it is decoding.
// FUNCTIONAL DISCOVERY: deferring payload decoding gives one tagged-union
// dispatch point instead of a per-event string comparison chain.
type Envelope struct {
	Event   EventKind       `json:"event"`
	Message json.RawMessage `json:"message,omitempty"`
}

// TextPayload is the payload of a "message" event.
type TextPayload struct {
	Text string `json:"text"`
	Geo  string `json:"geo"`
}

// PageResponse answers "load" and "favouritesLoad" queries. DB holds the
// page newest-first; Position is the cursor for the next older page and may
// go non-positive, which callers must treat as exhaustion.
type PageResponse struct {
	Event         EventKind   `json:"event"`
	DB            []*Message  `json:"dB"`
	Favourites    []string    `json:"favourites"`
	PinnedMessage *Message    `json:"pinnedMessage"`
	Side          SideSummary `json:"side"`
	Position      int         `json:"position"`
}

// StorageResponse answers a "storage" query with one category verbatim.
type StorageResponse struct {
	Event    EventKind          `json:"event"`
	Category Category           `json:"category"`
	Data     []AttachmentRecord `json:"data"`
}

// SelectResponse answers a "select" query.
type SelectResponse struct {
	Event   EventKind `json:"event"`
	Message *Message  `json:"message"`
}

// MessageBroadcast announces a freshly created message ("text" or "file")
// to every client. The embedded Message flattens into the envelope so the
// frame carries the message fields at top level.
type MessageBroadcast struct {
	Message
	Event EventKind   `json:"event"`
	Side  SideSummary `json:"side"`
}

// IDBroadcast announces a mutation identified only by message id: delete,
// favourite, favouriteRemove, unpin. Side is omitted for unpin.
type IDBroadcast struct {
	ID    string      `json:"id"`
	Event EventKind   `json:"event"`
	Side  SideSummary `json:"side,omitempty"`
}

// PinBroadcast announces the newly pinned message to every client.
type PinBroadcast struct {
	PinnedMessage *Message  `json:"pinnedMessage"`
	Event         EventKind `json:"event"`
}

// ErrorResponse reports a rejected operation back to the requesting client.
type ErrorResponse struct {
	Event EventKind `json:"event"`
	Error string    `json:"error"`
}
