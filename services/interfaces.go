package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"session-rag-chatbot/models"
)

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

// ChunkStore persists document chunks and answers session-filtered
// nearest-neighbor queries.
type ChunkStore interface {
	AddChunks(ctx context.Context, chunks []models.DocumentChunk) error
	Search(ctx context.Context, embedding pgvector.Vector, pred models.Predicate, k int) ([]models.DocumentChunk, error)
}

// HistoryStore persists ordered per-session chat messages.
type HistoryStore interface {
	EnsureHistoryTable(ctx context.Context) error
	Messages(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error)
	Append(ctx context.Context, sessionID uuid.UUID, role, content string) error
}

// LanguageModel produces completions for query rewriting and answer
// synthesis.
type LanguageModel interface {
	RewriteStandalone(ctx context.Context, history []models.ChatMessage, question string) (string, error)
	Answer(ctx context.Context, contextChunks []string, history []models.ChatMessage, question string) (string, error)
}

// Ingestor indexes an uploaded PDF for a session.
type Ingestor interface {
	IngestPDF(ctx context.Context, filePath, filename string, sessionID uuid.UUID) (int, error)
}

// Chatter answers a session-scoped query and exposes the session's
// conversation history.
type Chatter interface {
	Chat(ctx context.Context, rawSessionID, query string) (string, error)
	History(ctx context.Context, rawSessionID string) ([]models.ChatMessage, error)
}
