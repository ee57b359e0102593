package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/kbsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultMatchProcedure is the name of the indexed vector search function.
const DefaultMatchProcedure = "match_knowledge_chunks"

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	DSN             string
	MatchProcedure  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store implements db.Store on PostgreSQL with the pgvector extension.
type Store struct {
	db        *sql.DB
	matchFunc string // quoted identifier
}

// NewStore opens a PostgreSQL connection pool via lib/pq.
// The pool connects lazily; use WaitForReady to block until the server answers.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return newStore(conn, cfg.MatchProcedure), nil
}

// NewStoreFromDB wraps an existing *sql.DB (used by tests and embedding applications).
func NewStoreFromDB(conn *sql.DB, matchProcedure string) *Store {
	return newStore(conn, matchProcedure)
}

func newStore(conn *sql.DB, matchProcedure string) *Store {
	if matchProcedure == "" {
		matchProcedure = DefaultMatchProcedure
	}
	return &Store{db: conn, matchFunc: pq.QuoteIdentifier(matchProcedure)}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the connection pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
