package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// DB wraps the Postgres connection pool shared by the vector collection
// and the chat history table.
type DB struct {
	pool         *pgxpool.Pool
	collection   string
	historyTable string
	vectorDim    int
}

// New creates a new database connection pool. The pgvector codec is
// registered on every connection so embeddings can be bound as query
// parameters.
func New(connString, collection, historyTable string, vectorDim int) (*DB, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		pool:         pool,
		collection:   collection,
		historyTable: historyTable,
		vectorDim:    vectorDim,
	}, nil
}

// EnsureSchema creates the pgvector extension and both tables if absent.
// Errors propagate so genuine connectivity failures are not masked.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createChunks := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL,
			content TEXT NOT NULL,
			source_file TEXT NOT NULL,
			page INT NOT NULL,
			chunk_index INT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, db.collection, db.vectorDim)
	if _, err := db.pool.Exec(ctx, createChunks); err != nil {
		return fmt.Errorf("failed to create collection table: %w", err)
	}

	createIndex := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_session_idx ON %s (session_id)`,
		db.collection, db.collection)
	if _, err := db.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create session index: %w", err)
	}

	return db.EnsureHistoryTable(ctx)
}

// Pool returns the underlying connection pool
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.pool.Close()
}
