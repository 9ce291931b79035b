package ragify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakedshoshan/RAGify-sub000/bus"
)

func TestOpenWorkspace(t *testing.T) {
	t.Run("create new workspace", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		ws, err := OpenWorkspace(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, ws)
		defer ws.Close()

		assert.NotNil(t, ws.DocumentRepository())
		assert.NotNil(t, ws.ChunkRepository())
		assert.NotNil(t, ws.VectorStore())
		assert.NotNil(t, ws.Embedder())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A regular file where the database directory should be.
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		ws, err := OpenWorkspace(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, ws)
	})
}

func TestWorkspace_Close(t *testing.T) {
	ws, err := OpenWorkspace(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, ws)

	err = ws.Close()
	assert.NoError(t, err)
}

func TestWorkspace_NewOrchestrator(t *testing.T) {
	ws, err := OpenWorkspace(t.TempDir())
	require.NoError(t, err)
	defer ws.Close()

	b, err := bus.NewInMemory()
	require.NoError(t, err)
	defer b.Release()

	orch, err := ws.NewOrchestrator(b)
	require.NoError(t, err)
	require.NotNil(t, orch)
}
