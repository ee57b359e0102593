package db

import (
	"context"
	"time"
)

// Store is the corpus datastore facade combining the sub-interfaces.
type Store interface {
	Pinger
	KnowledgeReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks datastore connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KnowledgeReader exposes the read paths used by retrieval. The corpus is never written here.
type KnowledgeReader interface {
	// MatchChunks calls the indexed vector procedure.
	MatchChunks(ctx context.Context, q *MatchQuery) ([]MatchRow, error)
	// ScanChunks returns up to limit chunk rows with their vectors.
	ScanChunks(ctx context.Context, limit int) ([]ChunkRow, error)
	// FindDocuments looks up parent documents by id and status.
	FindDocuments(ctx context.Context, q *DocumentQuery) ([]DocumentRow, error)
	// SearchContent returns chunks whose content contains every term, case-insensitively.
	SearchContent(ctx context.Context, q *ContentQuery) ([]ChunkRow, error)
}

// KVStore provides the key-value operations used by the embedding cache.
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
}
