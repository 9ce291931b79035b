package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/storage"
	storagebadger "github.com/shakedshoshan/RAGify-sub000/storage/badger"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
)

const vectorRecordPrefix = "vecrec"

// Store implements vectorstore.Store on a BadgerDB backend. Vectors are
// normalized on write so queries can use the dot product directly.
type Store struct {
	backend *storagebadger.Backend
	logger  *slog.Logger
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore creates a vector store sharing an existing BadgerDB backend.
func NewStore(backend *storagebadger.Backend) *Store {
	return &Store{
		backend: backend,
		logger:  slog.Default().With("component", "vectorstore"),
	}
}

// makeVectorKey builds prefix:projectID:id with the ID in BigEndian order.
func makeVectorKey(projectID string, id core.ID) []byte {
	head := []byte(vectorRecordPrefix + ":" + projectID + ":")
	buf := make([]byte, len(head)+8)
	offset := copy(buf, head)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func makeVectorPrefix(projectID string) []byte {
	return []byte(vectorRecordPrefix + ":" + projectID + ":")
}

// Upsert writes vectors for a project in batches, replacing vectors with
// identical IDs. Values are normalized before storage.
func (s *Store) Upsert(ctx context.Context, projectID string, vectors []core.Vector, batchSize int) (int, error) {
	if len(vectors) == 0 {
		return 0, vectorstore.ErrEmptyBatch
	}
	if batchSize < 1 {
		batchSize = len(vectors)
	}

	total := 0
	for start := 0; start < len(vectors); start += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		end := start + batchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		batch := vectors[start:end]

		err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
			for i := range batch {
				vector := batch[i]
				vector.Values = vectorstore.NormalizeVector(vector.Values)
				key := makeVectorKey(projectID, vector.Id)
				if err := tx.Set(key, storage.MarshalVector(&vector)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return total, fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
		total += len(batch)
	}

	s.logger.Debug("upserted vectors", "project", projectID, "count", total)
	return total, nil
}

// Query returns up to topK matches ordered by similarity descending.
func (s *Store) Query(ctx context.Context, projectID string, vector []float32, topK int) ([]vectorstore.Match, error) {
	query := vectorstore.NormalizeVector(vector)

	var matches []vectorstore.Match
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = makeVectorPrefix(projectID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var stored *core.Vector
			err := iter.Item().Value(func(val []byte) error {
				var err error
				stored, err = storage.UnmarshalVector(val)
				return err
			})
			if err != nil {
				return err
			}
			if stored == nil || len(stored.Values) == 0 {
				continue
			}

			matches = append(matches, vectorstore.Match{
				Id:       stored.Id,
				Score:    vectorstore.DotProduct(query, stored.Values),
				Metadata: stored.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b vectorstore.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// DeleteAllByProject removes every vector of the project in one transaction.
func (s *Store) DeleteAllByProject(ctx context.Context, projectID string) (vectorstore.DeleteResult, error) {
	deleted := 0
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = makeVectorPrefix(projectID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		// The transaction was discarded, so nothing was actually removed.
		return vectorstore.DeleteResult{Deleted: 0, Success: false}, err
	}
	return vectorstore.DeleteResult{Deleted: deleted, Success: true}, nil
}

// DeleteByIDs removes the given vectors from the project.
func (s *Store) DeleteByIDs(ctx context.Context, projectID string, ids []core.ID) (int, error) {
	deleted := 0
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		for _, id := range ids {
			key := makeVectorKey(projectID, id)
			if _, err := tx.Get(key); err != nil {
				if err == badgerdb.ErrKeyNotFound {
					continue
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		// The discarded transaction removed nothing.
		return 0, err
	}
	return deleted, nil
}
