package core

import "time"

// EventMeta is the envelope every pipeline event carries.
//
// CorrelationId is stable across the whole pipeline run for a given
// (project, triggering request) pair and doubles as the idempotency key for
// at-least-once delivery.
type EventMeta struct {
	ProjectId     string    `json:"project_id"`
	CorrelationId string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// PrepareRequested starts a pipeline run. It carries the effective chunking
// parameters so every stage of the run sees the same configuration.
type PrepareRequested struct {
	EventMeta
	ChunkSize      int           `json:"chunk_size"`
	ChunkOverlap   int           `json:"chunk_overlap"`
	Strategy       ChunkStrategy `json:"strategy"`
	ModelName      string        `json:"model_name,omitempty"`
	DeleteExisting bool          `json:"delete_existing"`
}

// ChunkPayload is the slice of a persisted chunk that downstream stages
// consume. Riding inside the event, it lets the embed stage run without
// reading the chunk store back.
type ChunkPayload struct {
	Id         ID     `json:"id"`
	Content    string `json:"content"`
	SourceId   ID     `json:"source_id"`
	SourceName string `json:"source_name"`
	ChunkIndex int    `json:"chunk_index"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// DocumentsChunked signals that all raw documents of a project were split and
// the resulting chunks persisted. ModelName is carried through from the
// triggering request for the embed stage.
type DocumentsChunked struct {
	EventMeta
	Chunks    []ChunkPayload `json:"chunks"`
	DocCount  int            `json:"doc_count"`
	ModelName string         `json:"model_name,omitempty"`
}

// ChunksEmbedded signals that embeddings were computed for a project's chunks.
// The vectors ride inside the event so the ingest stage can run without
// re-querying the document store.
type ChunksEmbedded struct {
	EventMeta
	Vectors []Vector `json:"vectors"`
}

// EmbeddingsIngested signals that the vector index for the project was
// replaced with the new vectors.
type EmbeddingsIngested struct {
	EventMeta
	VectorCount int `json:"vector_count"`
}

// ProcessingError is emitted when a stage fails terminally. It is consumed by
// operators and monitoring only; no stage reacts to it.
type ProcessingError struct {
	EventMeta
	ErrorType string    `json:"error_type"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

// SystemMetrics reports coarse per-run counters when a run reaches a terminal
// state.
type SystemMetrics struct {
	EventMeta
	State      string        `json:"state"`
	ChunkCount int           `json:"chunk_count"`
	Vectors    int           `json:"vectors"`
	Elapsed    time.Duration `json:"elapsed"`
}
