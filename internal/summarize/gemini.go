// Package summarize delegates document summarization to the Gemini
// API.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"lexbot/internal/config"
	"lexbot/internal/logging"
)

// Summarizer condenses a legal document into a few sentences.
type Summarizer interface {
	Summarize(ctx context.Context, name, text string) (string, error)
}

// maxDocumentBytes bounds what is sent upstream per request.
const maxDocumentBytes = 200_000

// Gemini implements Summarizer over the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewGemini creates the client. The API key is required; deployments
// without one should not register the summarize handler.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  model,
		log:    logging.Get(logging.CategorySummary),
	}, nil
}

// Summarize asks the model for a short Spanish summary of the document.
func (g *Gemini) Summarize(ctx context.Context, name, text string) (string, error) {
	if len(text) > maxDocumentBytes {
		text = text[:maxDocumentBytes]
	}

	prompt := fmt.Sprintf(
		"Resume el siguiente documento legal (%s) en español, en un máximo de tres oraciones, para el personal de un estudio jurídico:\n\n%s",
		name, text)

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("gemini summarize failed: %w", err)
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", fmt.Errorf("gemini returned an empty summary")
	}
	g.log.Debug("document summarized",
		zap.String("document", name),
		zap.Int("bytes", len(text)))
	return summary, nil
}
