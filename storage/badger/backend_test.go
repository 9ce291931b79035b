package badger

import (
	"testing"
)

func TestBackendLifecycle(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open in-memory backend: %v", err)
	}

	if backend.IsClosed() {
		t.Fatal("Backend should be open")
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}
	if !backend.IsClosed() {
		t.Fatal("Backend should report closed")
	}

	// Closing twice is safe.
	if err := backend.Close(); err != nil {
		t.Fatalf("Second close should not error: %v", err)
	}
}

func TestBackendOnDisk(t *testing.T) {
	dir := t.TempDir()

	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to open backend at %s: %v", dir, err)
	}
	defer backend.Close()

	seq, err := backend.GetSequence("test-seq")
	if err != nil {
		t.Fatalf("Failed to get sequence: %v", err)
	}
	defer seq.Release()

	first, err := seq.Next()
	if err != nil {
		t.Fatalf("Failed to get next sequence value: %v", err)
	}
	second, err := seq.Next()
	if err != nil {
		t.Fatalf("Failed to get next sequence value: %v", err)
	}
	if second <= first {
		t.Fatalf("Sequence should be monotonic: %d then %d", first, second)
	}
}
