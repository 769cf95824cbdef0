package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"session-rag-chatbot/models"
)

// GeminiClient wraps the Google Generative AI SDK behind a circuit
// breaker and rate limiter. One client is constructed at startup and
// shared; it serves both completions and embeddings.
type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
	breaker        *gobreaker.CircuitBreaker
	rateLimiter    *rate.Limiter
}

const (
	rewriteSystemPrompt = "Rephrase the user question to be a standalone question based on chat history. " +
		"Return only the rephrased question with no preamble."
	answerSystemPrompt = "Answer the question using only the provided context and the conversation history. " +
		"If the context does not contain the answer, say that you don't have relevant information."
)

// NewGeminiClient creates the shared Gemini client.
func NewGeminiClient(apiKey, model, embeddingModel string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// Free tier allows 10 RPM; keep a small buffer under it
	rateLimiter := rate.NewLimiter(rate.Limit(10*0.9/60.0), 2)

	return &GeminiClient{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		breaker:        breaker,
		rateLimiter:    rateLimiter,
	}, nil
}

// RewriteStandalone rewrites a follow-up question into a standalone one
// using the conversation history, so pronouns and ellipsis resolve before
// retrieval.
func (gc *GeminiClient) RewriteStandalone(ctx context.Context, history []models.ChatMessage, question string) (string, error) {
	prompt := buildRewritePrompt(history, question)
	out, err := gc.generate(ctx, "gemini.rewrite_question", rewriteSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("question rewrite failed: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return question, nil
	}
	return out, nil
}

// Answer synthesizes an answer from the retrieved context chunks, the
// conversation history and the (rewritten) question.
func (gc *GeminiClient) Answer(ctx context.Context, contextChunks []string, history []models.ChatMessage, question string) (string, error) {
	prompt := buildAnswerPrompt(contextChunks, history, question)
	out, err := gc.generate(ctx, "gemini.answer", answerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// generate runs one completion through the rate limiter and breaker.
func (gc *GeminiClient) generate(ctx context.Context, spanName, system, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", gc.model),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(gc.model)
		model.SetTemperature(0.2)
		model.SetMaxOutputTokens(2048)
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", err
	}

	text := extractText(result.(*genai.GenerateContentResponse))
	if text == "" {
		span.SetAttributes(attribute.Bool("gemini.empty_response", true))
		return "", fmt.Errorf("no text returned by model")
	}

	span.SetAttributes(attribute.Bool("gemini.success", true))
	return text, nil
}

// extractText flattens candidate text parts from a Gemini response.
func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

func buildRewritePrompt(history []models.ChatMessage, question string) string {
	var sb strings.Builder
	sb.WriteString("Chat history:\n")
	writeHistory(&sb, history)
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}

func buildAnswerPrompt(contextChunks []string, history []models.ChatMessage, question string) string {
	var sb strings.Builder
	sb.WriteString("Context:\n\n")
	for i, chunk := range contextChunks {
		fmt.Fprintf(&sb, "Context %d:\n%s\n\n", i+1, chunk)
	}
	if len(contextChunks) == 0 {
		sb.WriteString("(no relevant context found)\n\n")
	}
	if len(history) > 0 {
		sb.WriteString("Chat history:\n")
		writeHistory(&sb, history)
		sb.WriteString("\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

func writeHistory(sb *strings.Builder, history []models.ChatMessage) {
	for _, msg := range history {
		fmt.Fprintf(sb, "%s: %s\n", msg.Role, msg.Content)
	}
}

// Close the client
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
