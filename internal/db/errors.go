package db

import "errors"

// Sentinel errors for datastore operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrInvalidQuery signals a query rejected before reaching the datastore.
	ErrInvalidQuery = errors.New("db: invalid query")
)

// Op names used for error context.
const (
	OpPing          = "PING"
	OpMatchChunks   = "MATCH_CHUNKS"
	OpScanChunks    = "SCAN_CHUNKS"
	OpFindDocuments = "FIND_DOCUMENTS"
	OpSearchContent = "SEARCH_CONTENT"
	OpGet           = "GET"
	OpSet           = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
