package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs, so re-running a
// pipeline overwrites vectors instead of duplicating them.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkStrategy selects the text-splitting algorithm.
type ChunkStrategy string

const (
	// StrategySemantic splits on a recursive separator hierarchy, preserving
	// natural boundaries and seeding each chunk with an overlap region.
	StrategySemantic ChunkStrategy = "semantic"
	// StrategyFixed splits with a non-semantic sliding character window.
	StrategyFixed ChunkStrategy = "fixed"
	// StrategyHybrid keeps paragraphs whole when they fit and sentence-packs
	// oversized ones.
	StrategyHybrid ChunkStrategy = "hybrid"
)

// RawDocument is a source text attached to a project, as stored in the
// document store before chunking.
type RawDocument struct {
	Id          ID
	ProjectId   string
	Name        string
	Text        string
	ContentType string
	InsertedAt  time.Time
}

// Chunk is a bounded span of a source document's text, with offsets and
// sequence metadata.
//
// Invariants: 0 <= StartIndex < EndIndex <= len(source text); chunks from one
// source, ordered by ChunkIndex, cover the source with overlapping boundaries.
// Content is trimmed of surrounding whitespace while StartIndex/EndIndex refer
// to the untrimmed source span, so EndIndex-StartIndex may exceed len(Content).
type Chunk struct {
	Id           ID
	Content      string
	StartIndex   int
	EndIndex     int
	SourceId     ID
	SourceName   string
	ChunkIndex   int
	TotalChunks  int
	ProjectId    string
	PreviousId   ID // 0 until links are assigned after persistence
	NextId       ID // 0 until links are assigned after persistence
	ChunkSize    int
	ChunkOverlap int
	CreatedAt    time.Time
	ContentType  string
	Keywords     []string
}

// VectorMetadata travels with a vector into the vector index so matches can
// be mapped back to their source chunk without a round-trip to storage.
type VectorMetadata struct {
	Content    string `json:"content"`
	Source     string `json:"source"`
	ProjectId  string `json:"project_id"`
	ChunkId    ID     `json:"chunk_id"`
	ChunkIndex int    `json:"chunk_index"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// Vector is the unit stored in the vector index.
type Vector struct {
	Id       ID             `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}
