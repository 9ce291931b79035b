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

import (
	"context"
	"log/slog"

	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/storage"
)

// ChunkLinker wires persisted chunks into a doubly linked sequence in a
// second pass, after IDs have been assigned by storage. Links let retrieval
// expand a hit with its neighbors without knowing offsets.
type ChunkLinker struct {
	chunks storage.ChunkRepository
	logger *slog.Logger
}

func NewChunkLinker(chunks storage.ChunkRepository, logger *slog.Logger) *ChunkLinker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkLinker{
		chunks: chunks,
		logger: logger.With("component", "chunk-linker"),
	}
}

// Link sets PreviousId/NextId on every chunk in order. The chunks must
// already be persisted with non-zero IDs. A failed link update is logged and
// skipped; the sequence degrades to a partial chain rather than failing the
// run, since links are a retrieval convenience and not required for
// correctness.
func (l *ChunkLinker) Link(ctx context.Context, chunks []*core.Chunk) int {
	linked := 0
	for i, c := range chunks {
		var previous, next core.ID
		if i > 0 {
			previous = chunks[i-1].Id
		}
		if i < len(chunks)-1 {
			next = chunks[i+1].Id
		}
		if previous == 0 && next == 0 {
			continue
		}
		if err := l.chunks.UpdateChunkLinks(ctx, c.Id, previous, next); err != nil {
			l.logger.Warn("chunk link update failed",
				"chunkId", c.Id, "previous", previous, "next", next, "error", err)
			continue
		}
		c.PreviousId = previous
		c.NextId = next
		linked++
	}
	return linked
}
