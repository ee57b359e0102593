package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a missing or invalid startup setting (e.g. no provider credential).
	ErrConfiguration = errors.New("configuration error")
	// ErrEmbeddingUnavailable signals that the query vector could not be produced.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrFastPathUnavailable signals a failure of the indexed vector procedure.
	ErrFastPathUnavailable = errors.New("fast path query unavailable")
	// ErrScanUnavailable signals a failure of the in-memory vector fallback.
	ErrScanUnavailable = errors.New("vector scan unavailable")
	// ErrKeywordQuery signals a failure of the lexical datastore query.
	ErrKeywordQuery = errors.New("keyword query failure")
	// ErrCanceled signals that the caller canceled the request or its deadline passed.
	ErrCanceled = errors.New("request canceled")
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
)

// IsCanceled reports whether err stems from context cancellation or an expired deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Canceled wraps a context error with ErrCanceled, keeping the cause reachable.
func Canceled(err error) error {
	if errors.Is(err, ErrCanceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
