package files

import "errors"

// Ingestion error types
var (
	ErrIngestionFailed = errors.New("file ingestion failed")
)
