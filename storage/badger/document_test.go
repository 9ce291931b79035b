package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/storage"
)

func TestRawDocumentBasics(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := docRepo.AddRawDocuments(ctx, &core.RawDocument{
		ProjectId:   "proj",
		Name:        "guide.md",
		Text:        "Some document text.",
		ContentType: "text/markdown",
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if len(added) != 1 || added[0].Id == 0 {
		t.Fatalf("Expected 1 document with non-zero ID, got %+v", added)
	}
	if added[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	retrieved, err := docRepo.GetRawDocument(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Text != "Some document text." || retrieved.Name != "guide.md" {
		t.Fatalf("Document not preserved: %+v", retrieved)
	}
}

func TestListRawTexts(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	_, err = docRepo.AddRawDocuments(ctx,
		&core.RawDocument{ProjectId: "proj", Name: "one.txt", Text: "first"},
		&core.RawDocument{ProjectId: "proj", Name: "two.txt", Text: "second"},
		&core.RawDocument{ProjectId: "other", Name: "three.txt", Text: "third"},
	)
	if err != nil {
		t.Fatalf("Failed to add documents: %v", err)
	}

	texts, err := docRepo.ListRawTexts(ctx, "proj")
	if err != nil {
		t.Fatalf("Failed to list texts: %v", err)
	}
	if len(texts) != 2 {
		t.Fatalf("Expected 2 texts, got %d", len(texts))
	}
	if texts[0].Name != "one.txt" || texts[1].Name != "two.txt" {
		t.Fatalf("Texts should be ordered by insertion: %+v", texts)
	}

	empty, err := docRepo.ListRawTexts(ctx, "unknown")
	if err != nil {
		t.Fatalf("Unknown project should not error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("Expected no texts, got %d", len(empty))
	}
}

func TestDeleteRawDocuments(t *testing.T) {
	docRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := docRepo.AddRawDocuments(ctx,
		&core.RawDocument{ProjectId: "proj", Name: "one.txt", Text: "first"},
	)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if err := docRepo.DeleteRawDocuments(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	_, err = docRepo.GetRawDocument(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := docRepo.DeleteRawDocuments(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing document, got %v", err)
	}
}
