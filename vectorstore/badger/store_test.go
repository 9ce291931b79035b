package badger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakedshoshan/RAGify-sub000/core"
	storagebadger "github.com/shakedshoshan/RAGify-sub000/storage/badger"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	backend, err := storagebadger.OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return NewStore(backend)
}

func vec(id core.ID, content string, values ...float32) core.Vector {
	return core.Vector{
		Id:     id,
		Values: values,
		Metadata: core.VectorMetadata{
			Content:   content,
			ProjectId: "proj",
			ChunkId:   id,
		},
	}
}

func TestStoreUpsertAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	n, err := store.Upsert(ctx, "proj", []core.Vector{
		vec(1, "east", 1, 0),
		vec(2, "north", 0, 1),
		vec(3, "northeast", 1, 1),
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	matches, err := store.Query(ctx, "proj", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, core.ID(1), matches[0].Id, "exact direction should rank first")
	assert.Equal(t, core.ID(3), matches[1].Id)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "east", matches[0].Metadata.Content)
}

func TestStoreUpsertReplacesByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "proj", []core.Vector{vec(1, "old", 1, 0)}, 10)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "proj", []core.Vector{vec(1, "new", 0, 1)}, 10)
	require.NoError(t, err)

	matches, err := store.Query(ctx, "proj", []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1, "upsert with same ID must replace, not duplicate")
	assert.Equal(t, "new", matches[0].Metadata.Content)
}

func TestStoreEmptyBatch(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Upsert(context.Background(), "proj", nil, 10)
	assert.ErrorIs(t, err, vectorstore.ErrEmptyBatch)
}

func TestStoreProjectIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "proj-a", []core.Vector{vec(1, "a", 1, 0)}, 10)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "proj-b", []core.Vector{vec(2, "b", 1, 0)}, 10)
	require.NoError(t, err)

	matches, err := store.Query(ctx, "proj-a", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(1), matches[0].Id)
}

func TestStoreDeleteAllByProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "proj", []core.Vector{
		vec(1, "a", 1, 0),
		vec(2, "b", 0, 1),
	}, 10)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "other", []core.Vector{vec(3, "c", 1, 0)}, 10)
	require.NoError(t, err)

	res, err := store.DeleteAllByProject(ctx, "proj")
	require.NoError(t, err)
	assert.Equal(t, vectorstore.DeleteResult{Deleted: 2, Success: true}, res)

	matches, err := store.Query(ctx, "proj", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)

	other, err := store.Query(ctx, "other", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, other, 1, "other projects must be untouched")

	res, err = store.DeleteAllByProject(ctx, "proj")
	require.NoError(t, err)
	assert.Equal(t, vectorstore.DeleteResult{Deleted: 0, Success: true}, res,
		"deleting an empty project succeeds with zero count")
}

func TestStoreDeleteByIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upsert(ctx, "proj", []core.Vector{
		vec(1, "a", 1, 0),
		vec(2, "b", 0, 1),
	}, 10)
	require.NoError(t, err)

	deleted, err := store.DeleteByIDs(ctx, "proj", []core.ID{1, 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted, "missing IDs are skipped, not errors")

	matches, err := store.Query(ctx, "proj", []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(2), matches[0].Id)
}

func TestStoreDeleteByIDsFailedTxnReportsZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// An oversized project id inflates every key, so removing all vectors in
	// one transaction overflows badger's transaction size limit partway
	// through. The returned count must not include entries the discarded
	// transaction never actually removed.
	projectID := strings.Repeat("p", 10_000)
	vectors := make([]core.Vector, 2000)
	ids := make([]core.ID, len(vectors))
	for i := range vectors {
		id := core.ID(i + 1)
		vectors[i] = core.Vector{Id: id, Values: []float32{1, 0}}
		ids[i] = id
	}
	n, err := store.Upsert(ctx, projectID, vectors, 100)
	require.NoError(t, err)
	require.Equal(t, len(vectors), n)

	deleted, err := store.DeleteByIDs(ctx, projectID, ids)
	require.Error(t, err)
	assert.Equal(t, 0, deleted, "a failed delete transaction removes nothing")
}
