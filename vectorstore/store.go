package vectorstore

import (
	"context"
	"errors"

	"github.com/shakedshoshan/RAGify-sub000/core"
)

var (
	// ErrEmptyBatch indicates an upsert with no vectors.
	ErrEmptyBatch = errors.New("no vectors to upsert")

	// ErrDeleteByProjectUnsupported indicates the store cannot delete by
	// project filter natively; callers fall back to query-then-delete.
	ErrDeleteByProjectUnsupported = errors.New("delete by project not supported")
)

// Match is a similarity-search hit.
type Match struct {
	Id       core.ID
	Score    float32
	Metadata core.VectorMetadata
}

// DeleteResult reports the outcome of a bulk delete.
//
// Deleted > 0 with Success == false signals a partial failure: some of the
// project's vectors are gone and some remain. Callers must treat that state
// as unsafe for further writes.
type DeleteResult struct {
	Deleted int
	Success bool
}

// Store is the vector index the ingest stage writes to.
// Implementations must be thread-safe.
type Store interface {
	// Upsert writes vectors for a project in batches of batchSize, replacing
	// vectors with identical IDs. Returns the total number upserted.
	Upsert(ctx context.Context, projectID string, vectors []core.Vector, batchSize int) (int, error)

	// Query returns up to topK matches for the vector within the project,
	// ordered by similarity descending.
	Query(ctx context.Context, projectID string, vector []float32, topK int) ([]Match, error)

	// DeleteAllByProject removes every vector of the project.
	// Stores without a native project filter return
	// ErrDeleteByProjectUnsupported; callers then use Query + DeleteByIDs.
	DeleteAllByProject(ctx context.Context, projectID string) (DeleteResult, error)

	// DeleteByIDs removes the given vectors from the project and returns the
	// number actually deleted. Missing IDs are not an error.
	DeleteByIDs(ctx context.Context, projectID string, ids []core.ID) (int, error)
}
