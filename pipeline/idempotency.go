// Copyright 2025 RAGify Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import "sync"

// IdempotencyStore collapses at-least-once event delivery into at-most-once
// stage execution. MarkProcessed returns true exactly once per
// (stage, project, correlation id) triple; duplicate deliveries get false and
// the stage skips its work.
type IdempotencyStore interface {
	MarkProcessed(stage, projectID, correlationID string) bool
}

// MemoryIdempotencyStore is the process-local implementation. Entries are
// never evicted; a long-lived orchestrator processing unbounded distinct runs
// should wrap this with eviction or use a durable store.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

var _ IdempotencyStore = (*MemoryIdempotencyStore)(nil)

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{seen: make(map[string]struct{})}
}

func (s *MemoryIdempotencyStore) MarkProcessed(stage, projectID, correlationID string) bool {
	key := OpKey(stage, projectID, correlationID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}
