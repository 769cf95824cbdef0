package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DocumentChunk represents a fragment of extracted PDF text stored in the
// vector collection. Immutable once inserted.
type DocumentChunk struct {
	ID         uuid.UUID       `json:"id"`
	SessionID  uuid.UUID       `json:"session_id"`
	Content    string          `json:"content"`
	SourceFile string          `json:"source_file"`
	Page       int             `json:"page"`
	ChunkIndex int             `json:"chunk_index"`
	Embedding  pgvector.Vector `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PageText is the extracted text of a single PDF page before chunking.
type PageText struct {
	Page int
	Text string
}

// UploadResponse is returned after a successful document ingestion.
type UploadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
