package ai

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
)

// Embed returns an embedding vector for the given text using the
// configured Google embedding model (text-embedding-004 by default).
// Deterministic for identical input.
func (gc *GeminiClient) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return pgvector.Vector{}, fmt.Errorf("text cannot be empty")
	}

	model := gc.client.EmbeddingModel(gc.embeddingModel)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return pgvector.Vector{}, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return pgvector.Vector{}, fmt.Errorf("no embedding returned")
	}

	return pgvector.NewVector(resp.Embedding.Values), nil
}
