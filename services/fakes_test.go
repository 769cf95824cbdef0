package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"session-rag-chatbot/models"
)

type fakeEmbedder struct {
	texts []string
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	f.texts = append(f.texts, text)
	return pgvector.NewVector([]float32{1, 0, 0}), nil
}

type fakeChunkStore struct {
	added      [][]models.DocumentChunk
	addErr     error
	predicates []models.Predicate
	// chunks returned only for the matching session
	bySession map[uuid.UUID][]models.DocumentChunk
	searchErr error
}

func (f *fakeChunkStore) AddChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, chunks)
	return nil
}

func (f *fakeChunkStore) Search(ctx context.Context, embedding pgvector.Vector, pred models.Predicate, k int) ([]models.DocumentChunk, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if err := pred.Validate(); err != nil {
		return nil, err
	}
	f.predicates = append(f.predicates, pred)
	results := f.bySession[pred.Value]
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

type appendCall struct {
	sessionID uuid.UUID
	role      string
	content   string
}

type fakeHistoryStore struct {
	ensureErr error
	loadErr   error
	appendErr error
	messages  map[uuid.UUID][]models.ChatMessage
	appended  []appendCall
}

func (f *fakeHistoryStore) EnsureHistoryTable(ctx context.Context) error {
	return f.ensureErr
}

func (f *fakeHistoryStore) Messages(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.messages[sessionID], nil
}

func (f *fakeHistoryStore) Append(ctx context.Context, sessionID uuid.UUID, role, content string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, appendCall{sessionID: sessionID, role: role, content: content})
	return nil
}

type answerCall struct {
	contextChunks []string
	question      string
	historyLen    int
}

type fakeLLM struct {
	rewriteOut   string
	rewriteErr   error
	rewriteCalls int
	answerOut    string
	answerErr    error
	answerCalls  []answerCall
}

func (f *fakeLLM) RewriteStandalone(ctx context.Context, history []models.ChatMessage, question string) (string, error) {
	f.rewriteCalls++
	if f.rewriteErr != nil {
		return "", f.rewriteErr
	}
	if f.rewriteOut == "" {
		return question, nil
	}
	return f.rewriteOut, nil
}

func (f *fakeLLM) Answer(ctx context.Context, contextChunks []string, history []models.ChatMessage, question string) (string, error) {
	if f.answerErr != nil {
		return "", f.answerErr
	}
	f.answerCalls = append(f.answerCalls, answerCall{
		contextChunks: contextChunks,
		question:      question,
		historyLen:    len(history),
	})
	return f.answerOut, nil
}
