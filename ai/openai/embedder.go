package openai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shakedshoshan/RAGify-sub000/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Requests naming a model other than the configured one get a lazily built,
// cached client for that model.
type Embedder struct {
	embedder   embeddings.Embedder
	config     *ai.Config
	dimensions int
	logger     *slog.Logger

	mu      sync.Mutex
	byModel map[string]embeddings.Embedder
}

var _ ai.ModelEmbedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newClientEmbedder(config.EmbeddingHost, config.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:   embedder,
		config:     config,
		dimensions: config.Dimensions,
		logger:     slog.Default().With("component", "openai-embedder"),
		byModel:    make(map[string]embeddings.Embedder),
	}, nil
}

// newClientEmbedder builds a langchaingo embedder for one host/model pair.
// Use "none" as token for local OpenAI-compatible services that don't require authentication.
func newClientEmbedder(host, model string) (embeddings.Embedder, error) {
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	if err := e.checkDimensions(vectors[0]); err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	for _, vector := range vectors {
		if err := e.checkDimensions(vector); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// EmbedTextsWithModel generates embeddings with the named model instead of
// the configured default.
func (e *Embedder) EmbedTextsWithModel(ctx context.Context, texts []string, model string) ([][]float32, error) {
	if model == "" || model == e.config.EmbeddingModel {
		return e.EmbedTexts(ctx, texts)
	}

	emb, err := e.forModel(model)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts), "model", model)

	vectors, err := emb.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "model", model, "err", err)
		return nil, err
	}

	for _, vector := range vectors {
		if err := e.checkDimensions(vector); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

func (e *Embedder) forModel(model string) (embeddings.Embedder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if emb, ok := e.byModel[model]; ok {
		return emb, nil
	}
	emb, err := newClientEmbedder(e.config.EmbeddingHost, model)
	if err != nil {
		return nil, err
	}
	e.byModel[model] = emb
	return emb, nil
}

// checkDimensions verifies the provider returned vectors of the configured
// size. A mismatch means the model name and dimensions disagree, which would
// silently corrupt the vector index.
func (e *Embedder) checkDimensions(vector []float32) error {
	if e.dimensions > 0 && len(vector) != e.dimensions {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", e.dimensions, len(vector))
	}
	return nil
}
