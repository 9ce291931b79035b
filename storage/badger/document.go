package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(docIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// AddRawDocuments adds one or more raw documents to storage.
func (r *DocumentRepository) AddRawDocuments(ctx context.Context, docs ...*core.RawDocument) ([]*core.RawDocument, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if doc.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				doc.Id = core.ID(nextID)
			}

			if doc.InsertedAt.IsZero() {
				doc.InsertedAt = time.Now().UTC()
			}

			key := makeDocKey(doc.Id)
			if err := tx.Set(key, storage.MarshalRawDocument(doc)); err != nil {
				return err
			}

			projKey := makeDocProjectKey(doc.ProjectId, doc.Id)
			if err := tx.Set(projKey, storage.MarshalID(doc.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return docs, err
}

// ListRawTexts returns the texts of every document attached to the project.
func (r *DocumentRepository) ListRawTexts(ctx context.Context, projectID string) ([]storage.RawText, error) {
	var result []storage.RawText
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocProjectPrefix(projectID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, id := range ids {
			doc, err := r.readDocument(tx, makeDocKey(id))
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}
			result = append(result, storage.RawText{
				Id:          doc.Id,
				Name:        doc.Name,
				Text:        doc.Text,
				ContentType: doc.ContentType,
			})
		}
		return nil
	}, false)
	return result, err
}

// GetRawDocument retrieves a single document by ID.
func (r *DocumentRepository) GetRawDocument(ctx context.Context, id core.ID) (*core.RawDocument, error) {
	var result *core.RawDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readDocument(tx, makeDocKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteRawDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteRawDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocKey(id)
			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeDocProjectKey(doc.ProjectId, doc.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readDocument reads and unmarshals a document, returning nil if absent.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.RawDocument, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.RawDocument
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalRawDocument(val)
		return err
	})
	return doc, err
}
