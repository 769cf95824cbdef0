package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-rag-chatbot/internal/session"
	"session-rag-chatbot/models"
)

func newChatFixture() (*fakeLLM, *fakeEmbedder, *fakeChunkStore, *fakeHistoryStore, *ChatService) {
	llm := &fakeLLM{answerOut: "the answer"}
	embedder := &fakeEmbedder{}
	chunks := &fakeChunkStore{bySession: map[uuid.UUID][]models.DocumentChunk{}}
	history := &fakeHistoryStore{messages: map[uuid.UUID][]models.ChatMessage{}}
	svc := NewChatService(llm, embedder, chunks, history, 4)
	return llm, embedder, chunks, history, svc
}

func TestChatEmptySessionAnswersAndPersistsHistory(t *testing.T) {
	llm, _, _, history, svc := newChatFixture()

	answer, err := svc.Chat(context.Background(), "fresh-session", "What is in my documents?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	// No prior history, the rewrite step is skipped and the answer is
	// generated with empty context
	assert.Equal(t, 0, llm.rewriteCalls)
	require.Len(t, llm.answerCalls, 1)
	assert.Empty(t, llm.answerCalls[0].contextChunks)

	// Exactly one user and one assistant message appended
	require.Len(t, history.appended, 2)
	assert.Equal(t, models.RoleUser, history.appended[0].role)
	assert.Equal(t, "What is in my documents?", history.appended[0].content)
	assert.Equal(t, models.RoleAssistant, history.appended[1].role)
	assert.Equal(t, "the answer", history.appended[1].content)
}

func TestChatRewritesFollowUpQuestionsButPersistsOriginal(t *testing.T) {
	llm, embedder, _, history, svc := newChatFixture()
	llm.rewriteOut = "What is the capital of Example-land?"

	sid := session.Canonical("abc")
	history.messages[sid] = []models.ChatMessage{
		{Role: models.RoleUser, Content: "What is the capital of Example-land?"},
		{Role: models.RoleAssistant, Content: "Exampletown"},
	}

	_, err := svc.Chat(context.Background(), "abc", "What did I just ask?")
	require.NoError(t, err)

	assert.Equal(t, 1, llm.rewriteCalls)
	// Retrieval and synthesis run on the rewritten question
	require.NotEmpty(t, embedder.texts)
	assert.Equal(t, "What is the capital of Example-land?", embedder.texts[len(embedder.texts)-1])
	require.Len(t, llm.answerCalls, 1)
	assert.Equal(t, "What is the capital of Example-land?", llm.answerCalls[0].question)

	// But the original question is what lands in history
	require.Len(t, history.appended, 2)
	assert.Equal(t, "What did I just ask?", history.appended[0].content)
}

func TestChatUsesOneCanonicalKeyForFilterAndHistory(t *testing.T) {
	_, _, chunks, history, svc := newChatFixture()

	_, err := svc.Chat(context.Background(), "my-session", "hello")
	require.NoError(t, err)

	require.Len(t, chunks.predicates, 1)
	pred := chunks.predicates[0]
	assert.Equal(t, models.FieldSessionID, pred.Field)
	assert.Equal(t, models.OpEqual, pred.Op)

	want := session.Canonical("my-session")
	assert.Equal(t, want, pred.Value)
	require.Len(t, history.appended, 2)
	assert.Equal(t, want, history.appended[0].sessionID)
	assert.Equal(t, want, history.appended[1].sessionID)
}

func TestChatNeverLeaksAnotherSessionsChunks(t *testing.T) {
	llm, _, chunks, _, svc := newChatFixture()

	s1 := session.Canonical("s1")
	chunks.bySession[s1] = []models.DocumentChunk{
		{SessionID: s1, Content: "The capital of Example-land is Exampletown."},
	}

	// Chat as s2 with a query matching s1's content
	_, err := svc.Chat(context.Background(), "s2", "What is the capital of Example-land?")
	require.NoError(t, err)

	require.Len(t, llm.answerCalls, 1)
	assert.Empty(t, llm.answerCalls[0].contextChunks)

	// Same query as s1 does see the content
	_, err = svc.Chat(context.Background(), "s1", "What is the capital of Example-land?")
	require.NoError(t, err)
	require.Len(t, llm.answerCalls, 2)
	assert.Equal(t,
		[]string{"The capital of Example-land is Exampletown."},
		llm.answerCalls[1].contextChunks)
}

func TestChatModelFailureWritesNoHistory(t *testing.T) {
	llm, _, _, history, svc := newChatFixture()
	llm.answerErr = errors.New("model unavailable")

	_, err := svc.Chat(context.Background(), "abc", "hello")
	require.Error(t, err)
	assert.Empty(t, history.appended)
}

func TestChatEnsureTableFailurePropagates(t *testing.T) {
	_, _, _, history, svc := newChatFixture()
	history.ensureErr = errors.New("connection refused")

	_, err := svc.Chat(context.Background(), "abc", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestChatRetrievalFailurePropagates(t *testing.T) {
	_, _, chunks, history, svc := newChatFixture()
	chunks.searchErr = errors.New("vector store down")

	_, err := svc.Chat(context.Background(), "abc", "hello")
	require.Error(t, err)
	assert.Empty(t, history.appended)
}

func TestHistoryReturnsSessionMessages(t *testing.T) {
	_, _, _, history, svc := newChatFixture()

	sid := session.Canonical("abc")
	history.messages[sid] = []models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
	}

	messages, err := svc.History(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].Content)
}
