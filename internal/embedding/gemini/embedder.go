// Package gemini implements the embedding provider on top of the Google
// GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/getjobscout/jobscout/internal/embedding"
	"github.com/getjobscout/jobscout/internal/logger"
	"github.com/getjobscout/jobscout/internal/utils"
)

const (
	defaultModel     = "gemini-embedding-001"
	defaultDimension = 768

	previewLogLength = 120
)

// Embedder embeds texts via the Gemini embedding API. The output dimension
// is fixed at construction and never changes for the process lifetime.
type Embedder struct {
	client     *genai.Client
	modelName  string
	dimension  int
	maxRetries int
	logger     *zap.Logger
}

var _ embedding.Provider = (*Embedder)(nil)

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, apiKey, model string, dimension, maxRetries int, log *zap.Logger) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if dimension <= 0 {
		dimension = defaultDimension
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Embedder{
		client:     client,
		modelName:  model,
		dimension:  dimension,
		maxRetries: maxRetries,
		logger:     log,
	}, nil
}

func (e *Embedder) Dimension() int {
	if e == nil {
		return 0
	}
	return e.dimension
}

func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.modelName
}

// Embed returns one unit-normalized vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	cfg := &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(e.dimension)),
	}

	if e.logger != nil {
		e.logger.Debug("gemini embed content request",
			zap.String(logger.FieldProvider, "gemini"),
			zap.String(logger.FieldModel, e.modelName),
			zap.Int("texts", len(texts)),
			zap.String("first_text_preview", logger.TruncateForLog(texts[0], previewLogLength)),
		)
	}

	resp, err := e.embedWithRetries(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini api returned empty embedding at position %d", i)
		}

		vec := make([]float32, len(emb.Values))
		copy(vec, emb.Values)
		embedding.NormalizeL2(vec)
		out[i] = vec
	}

	return out, nil
}

func (e *Embedder) embedWithRetries(ctx context.Context, contents []*genai.Content, cfg *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		resp, err := e.client.Models.EmbedContent(ctx, e.modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == e.maxRetries {
			break
		}

		backoff := time.Second * time.Duration(1<<attempt)
		if e.logger != nil {
			e.logger.Warn("embedding request failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
		}
		if werr := utils.WaitFor(ctx, backoff); werr != nil {
			return nil, werr
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}
