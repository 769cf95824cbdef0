package services

import (
	"context"
	"fmt"

	"session-rag-chatbot/internal/logger"
	"session-rag-chatbot/internal/session"
	"session-rag-chatbot/models"
)

// ChatService runs the conversational retrieval flow: history-aware query
// rewriting, session-filtered retrieval, answer synthesis and history
// persistence. The canonical session UUID is the single key for both the
// vector filter and the history store.
type ChatService struct {
	llm      LanguageModel
	embedder Embedder
	chunks   ChunkStore
	history  HistoryStore
	topK     int
}

// NewChatService creates a new chat service.
func NewChatService(llm LanguageModel, embedder Embedder, chunks ChunkStore, history HistoryStore, topK int) *ChatService {
	if topK <= 0 {
		topK = 4
	}
	return &ChatService{
		llm:      llm,
		embedder: embedder,
		chunks:   chunks,
		history:  history,
		topK:     topK,
	}
}

// Chat answers a query over the session's documents and appends the
// original query and the answer to the session's history.
func (s *ChatService) Chat(ctx context.Context, rawSessionID, query string) (string, error) {
	sessionID := session.Canonical(rawSessionID)

	if err := s.history.EnsureHistoryTable(ctx); err != nil {
		return "", err
	}

	messages, err := s.history.Messages(ctx, sessionID)
	if err != nil {
		return "", err
	}

	// With no prior history there is nothing to resolve, retrieve on the
	// query as-is
	question := query
	if len(messages) > 0 {
		question, err = s.llm.RewriteStandalone(ctx, messages, query)
		if err != nil {
			return "", err
		}
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", err
	}

	retrieved, err := s.chunks.Search(ctx, embedding, models.SessionEquals(sessionID), s.topK)
	if err != nil {
		return "", err
	}

	contextChunks := make([]string, 0, len(retrieved))
	for _, chunk := range retrieved {
		contextChunks = append(contextChunks, chunk.Content)
	}

	answer, err := s.llm.Answer(ctx, contextChunks, messages, question)
	if err != nil {
		return "", err
	}

	// The original query is persisted, not the rewrite
	if err := s.history.Append(ctx, sessionID, models.RoleUser, query); err != nil {
		return "", err
	}
	if err := s.history.Append(ctx, sessionID, models.RoleAssistant, answer); err != nil {
		return "", err
	}

	logger.Debug("chat answered",
		"session_id", sessionID.String(),
		"retrieved_chunks", len(retrieved),
		"history_messages", len(messages),
	)
	return answer, nil
}

// History returns the persisted conversation for a session, oldest first.
func (s *ChatService) History(ctx context.Context, rawSessionID string) ([]models.ChatMessage, error) {
	sessionID := session.Canonical(rawSessionID)
	if err := s.history.EnsureHistoryTable(ctx); err != nil {
		return nil, err
	}
	messages, err := s.history.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return messages, nil
}
