package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"session-rag-chatbot/internal/logger"
	"session-rag-chatbot/models"
)

// IngestionService extracts, chunks, embeds and stores an uploaded PDF
// for one session.
type IngestionService struct {
	embedder Embedder
	store    ChunkStore
	splitter *RecursiveSplitter
	loader   func(string) ([]models.PageText, error)
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(embedder Embedder, store ChunkStore, splitter *RecursiveSplitter) *IngestionService {
	return &IngestionService{
		embedder: embedder,
		store:    store,
		splitter: splitter,
		loader:   LoadPDFPages,
	}
}

// IngestPDF loads every page of the PDF at filePath, splits the text into
// overlapping chunks, stamps each chunk with the session id and inserts
// them into the vector store in one batch. Returns the chunk count.
// No partial-insert rollback or retry: a failure fails the whole upload.
func (s *IngestionService) IngestPDF(ctx context.Context, filePath, filename string, sessionID uuid.UUID) (int, error) {
	pages, err := s.loader(filePath)
	if err != nil {
		return 0, fmt.Errorf("pdf extraction failed: %w", err)
	}

	var chunks []models.DocumentChunk
	index := 0
	for _, page := range pages {
		for _, text := range s.splitter.Split(page.Text) {
			embedding, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return 0, fmt.Errorf("embedding failed for chunk %d: %w", index, err)
			}
			chunks = append(chunks, models.DocumentChunk{
				ID:         uuid.New(),
				SessionID:  sessionID,
				Content:    text,
				SourceFile: filename,
				Page:       page.Page,
				ChunkIndex: index,
				Embedding:  embedding,
			})
			index++
		}
	}

	if len(chunks) == 0 {
		return 0, fmt.Errorf("document produced no indexable chunks")
	}

	if err := s.store.AddChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("vector store insert failed: %w", err)
	}

	logger.Info("document indexed",
		"filename", filename,
		"session_id", sessionID.String(),
		"pages", len(pages),
		"chunks", len(chunks),
	)
	return len(chunks), nil
}
