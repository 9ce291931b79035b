package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// Provider failures surface as errors the pipeline treats as transient and
// retries with backoff.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ModelEmbedder is implemented by providers that can embed with a model
// chosen per request instead of the one fixed at construction. An empty model
// name selects the configured default.
type ModelEmbedder interface {
	Embedder

	EmbedTextsWithModel(ctx context.Context, texts []string, model string) ([][]float32, error)
}
