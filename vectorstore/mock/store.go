package mock

import (
	"context"
	"sync"

	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
)

// Store is a test double for vectorstore.Store.
// It keeps vectors in a map and allows behavior injection via function fields.
type Store struct {
	// UpsertFunc is called by Upsert if set.
	UpsertFunc func(ctx context.Context, projectID string, vectors []core.Vector, batchSize int) (int, error)

	// QueryFunc is called by Query if set.
	QueryFunc func(ctx context.Context, projectID string, vector []float32, topK int) ([]vectorstore.Match, error)

	// DeleteAllFunc is called by DeleteAllByProject if set.
	DeleteAllFunc func(ctx context.Context, projectID string) (vectorstore.DeleteResult, error)

	// DeleteByIDsFunc is called by DeleteByIDs if set.
	DeleteByIDsFunc func(ctx context.Context, projectID string, ids []core.ID) (int, error)

	mu          sync.Mutex
	vectors     map[string]map[core.ID]core.Vector
	upsertCalls int
	queryCalls  int
	deleteCalls int
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore creates a mock vector store with default in-memory behavior.
// Returns the concrete type to allow test assertions.
func NewStore() *Store {
	return &Store{vectors: make(map[string]map[core.ID]core.Vector)}
}

func (s *Store) Upsert(ctx context.Context, projectID string, vectors []core.Vector, batchSize int) (int, error) {
	s.mu.Lock()
	s.upsertCalls++
	s.mu.Unlock()

	if s.UpsertFunc != nil {
		return s.UpsertFunc(ctx, projectID, vectors, batchSize)
	}
	if len(vectors) == 0 {
		return 0, vectorstore.ErrEmptyBatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	project := s.vectors[projectID]
	if project == nil {
		project = make(map[core.ID]core.Vector)
		s.vectors[projectID] = project
	}
	for _, v := range vectors {
		project[v.Id] = v
	}
	return len(vectors), nil
}

func (s *Store) Query(ctx context.Context, projectID string, vector []float32, topK int) ([]vectorstore.Match, error) {
	s.mu.Lock()
	s.queryCalls++
	s.mu.Unlock()

	if s.QueryFunc != nil {
		return s.QueryFunc(ctx, projectID, vector, topK)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []vectorstore.Match
	for id, v := range s.vectors[projectID] {
		matches = append(matches, vectorstore.Match{
			Id:       id,
			Score:    vectorstore.DotProduct(vector, v.Values),
			Metadata: v.Metadata,
		})
		if topK > 0 && len(matches) >= topK {
			break
		}
	}
	return matches, nil
}

func (s *Store) DeleteAllByProject(ctx context.Context, projectID string) (vectorstore.DeleteResult, error) {
	s.mu.Lock()
	s.deleteCalls++
	s.mu.Unlock()

	if s.DeleteAllFunc != nil {
		return s.DeleteAllFunc(ctx, projectID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := len(s.vectors[projectID])
	delete(s.vectors, projectID)
	return vectorstore.DeleteResult{Deleted: deleted, Success: true}, nil
}

func (s *Store) DeleteByIDs(ctx context.Context, projectID string, ids []core.ID) (int, error) {
	if s.DeleteByIDsFunc != nil {
		return s.DeleteByIDsFunc(ctx, projectID, ids)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for _, id := range ids {
		if _, ok := s.vectors[projectID][id]; ok {
			delete(s.vectors[projectID], id)
			deleted++
		}
	}
	return deleted, nil
}

// Count returns the number of vectors stored for a project.
func (s *Store) Count(projectID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vectors[projectID])
}

// UpsertCalls returns how many times Upsert was called.
func (s *Store) UpsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertCalls
}
