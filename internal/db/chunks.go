package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"session-rag-chatbot/models"
)

// AddChunks inserts all chunks in one batch. No partial-insert rollback:
// if any statement fails the whole ingestion fails.
func (db *DB) AddChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, content, source_file, page, chunk_index, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, db.collection)

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(sql,
			chunk.ID, chunk.SessionID, chunk.Content,
			chunk.SourceFile, chunk.Page, chunk.ChunkIndex, chunk.Embedding,
		)
	}
	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return nil
}

// Search returns the top-k chunks nearest to the query embedding,
// restricted by the metadata predicate. Only the closed predicate set is
// accepted; the filter column name comes from the validated field, never
// from caller input.
func (db *DB) Search(ctx context.Context, embedding pgvector.Vector, pred models.Predicate, k int) ([]models.DocumentChunk, error) {
	if err := pred.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retrieval filter: %w", err)
	}

	sql := fmt.Sprintf(`
		SELECT id, session_id, content, source_file, page, chunk_index, embedding, created_at
		FROM %s
		WHERE %s %s $1 AND embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3`, db.collection, pred.Field, pred.Op)

	rows, err := db.pool.Query(ctx, sql, pred.Value, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		if err := rows.Scan(
			&chunk.ID, &chunk.SessionID, &chunk.Content,
			&chunk.SourceFile, &chunk.Page, &chunk.ChunkIndex,
			&chunk.Embedding, &chunk.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}
