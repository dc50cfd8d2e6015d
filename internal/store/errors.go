package store

import "errors"

// Store-specific error types
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrUnknownCategory = errors.New("unknown category")
)
