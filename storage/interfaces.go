package storage

import (
	"context"

	"github.com/shakedshoshan/RAGify-sub000/core"
)

// RawText is the chunking stage's view of a stored document.
type RawText struct {
	Id          core.ID
	Name        string
	Text        string
	ContentType string
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository manages raw source documents attached to projects.
type DocumentRepository interface {
	Repository

	// AddRawDocuments adds one or more raw documents to storage.
	// For documents with ID=0, generates new IDs from sequence.
	// Sets InsertedAt if not already set.
	// Returns the documents with generated IDs populated.
	AddRawDocuments(ctx context.Context, docs ...*core.RawDocument) ([]*core.RawDocument, error)

	// ListRawTexts returns the id, name, and text of every document attached
	// to the project, ordered by ID.
	ListRawTexts(ctx context.Context, projectID string) ([]RawText, error)

	// GetRawDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetRawDocument(ctx context.Context, id core.ID) (*core.RawDocument, error)

	// DeleteRawDocuments removes documents by their IDs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteRawDocuments(ctx context.Context, ids ...core.ID) error
}

// ChunkRepository manages the transient chunk records produced by the
// chunking stage and consumed by the embed and cleanup stages.
type ChunkRepository interface {
	Repository

	// SaveChunks persists chunks in bulk. For chunks with ID=0, generates
	// new IDs from sequence and sets CreatedAt if not already set.
	// Returns the chunks with generated IDs populated.
	SaveChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunkLinks sets the previous/next references of a persisted
	// chunk. Nothing else on the chunk is mutated.
	// Returns ErrNotFound if the chunk doesn't exist.
	UpdateChunkLinks(ctx context.Context, id, previous, next core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetChunksByProject retrieves all chunks of a project ordered by ID.
	GetChunksByProject(ctx context.Context, projectID string) ([]*core.Chunk, error)

	// DeleteChunksByProject removes all chunks of a project and returns the
	// number deleted. A project with no chunks deletes zero without error.
	DeleteChunksByProject(ctx context.Context, projectID string) (int, error)
}
