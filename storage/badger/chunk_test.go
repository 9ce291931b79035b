package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/storage"
)

func testChunk(projectID, content string, index int) *core.Chunk {
	return &core.Chunk{
		Content:      content,
		StartIndex:   index * 80,
		EndIndex:     index*80 + 100,
		SourceId:     1,
		SourceName:   "doc.txt",
		ChunkIndex:   index,
		TotalChunks:  3,
		ProjectId:    projectID,
		ChunkSize:    100,
		ChunkOverlap: 20,
		ContentType:  "text/plain",
		Keywords:     []string{"test"},
	}
}

func TestChunkBasics(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	saved, err := chunkRepo.SaveChunks(ctx, testChunk("proj", "Hello, world!", 0))
	if err != nil {
		t.Fatalf("Failed to save chunk: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(saved))
	}
	if saved[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if saved[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := chunkRepo.GetChunk(ctx, saved[0].Id)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if retrieved.Content != "Hello, world!" {
		t.Fatalf("Expected 'Hello, world!', got '%s'", retrieved.Content)
	}
	if retrieved.ChunkIndex != 0 || retrieved.SourceName != "doc.txt" {
		t.Fatalf("Chunk metadata not preserved: %+v", retrieved)
	}
}

func TestChunkValidationOnSave(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	bad := testChunk("proj", "", 0)
	_, err = chunkRepo.SaveChunks(context.Background(), bad)
	if !errors.Is(err, core.ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk, got %v", err)
	}
}

func TestChunkGetMissing(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = chunkRepo.GetChunk(ctx, 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// GetChunks silently skips missing IDs.
	saved, err := chunkRepo.SaveChunks(ctx, testChunk("proj", "present", 0))
	if err != nil {
		t.Fatalf("Failed to save chunk: %v", err)
	}
	got, err := chunkRepo.GetChunks(ctx, saved[0].Id, 9999)
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(got))
	}
}

func TestChunkLinks(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	saved, err := chunkRepo.SaveChunks(ctx,
		testChunk("proj", "first", 0),
		testChunk("proj", "second", 1),
		testChunk("proj", "third", 2),
	)
	if err != nil {
		t.Fatalf("Failed to save chunks: %v", err)
	}

	if err := chunkRepo.UpdateChunkLinks(ctx, saved[1].Id, saved[0].Id, saved[2].Id); err != nil {
		t.Fatalf("Failed to update links: %v", err)
	}

	middle, err := chunkRepo.GetChunk(ctx, saved[1].Id)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if middle.PreviousId != saved[0].Id || middle.NextId != saved[2].Id {
		t.Fatalf("Links not persisted: prev=%d next=%d", middle.PreviousId, middle.NextId)
	}
	if middle.Content != "second" {
		t.Fatalf("Link update must not mutate content, got '%s'", middle.Content)
	}

	if err := chunkRepo.UpdateChunkLinks(ctx, 9999, 1, 2); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing chunk, got %v", err)
	}
}

func TestChunksByProject(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = chunkRepo.SaveChunks(ctx,
		testChunk("proj-a", "a1", 0),
		testChunk("proj-a", "a2", 1),
		testChunk("proj-b", "b1", 0),
	)
	if err != nil {
		t.Fatalf("Failed to save chunks: %v", err)
	}

	got, err := chunkRepo.GetChunksByProject(ctx, "proj-a")
	if err != nil {
		t.Fatalf("Failed to get chunks by project: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 chunks for proj-a, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Id >= got[i].Id {
			t.Fatal("Chunks should be ordered by ID")
		}
	}

	deleted, err := chunkRepo.DeleteChunksByProject(ctx, "proj-a")
	if err != nil {
		t.Fatalf("Failed to delete chunks: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("Expected 2 deleted, got %d", deleted)
	}

	remaining, err := chunkRepo.GetChunksByProject(ctx, "proj-a")
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("Expected no chunks after delete, got %d", len(remaining))
	}

	other, err := chunkRepo.GetChunksByProject(ctx, "proj-b")
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("Other project should be untouched, got %d chunks", len(other))
	}

	// Deleting an empty project is not an error.
	deleted, err = chunkRepo.DeleteChunksByProject(ctx, "proj-a")
	if err != nil || deleted != 0 {
		t.Fatalf("Expected 0 deleted without error, got %d, %v", deleted, err)
	}
}
