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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - ProjectId must not be empty
//   - 0 <= StartIndex < EndIndex
//   - ChunkSize > 0 and 0 <= ChunkOverlap < ChunkSize
//
// NOT validated (populated after persistence):
//   - Id (0 is valid until assigned from a sequence)
//   - PreviousId / NextId (assigned by the linker)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.ProjectId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyProject)
	}

	if chunk.StartIndex < 0 || chunk.EndIndex <= chunk.StartIndex {
		return fmt.Errorf("%w: %w: start=%d end=%d",
			ErrInvalidChunk, ErrInvalidOffsets, chunk.StartIndex, chunk.EndIndex)
	}

	if err := ValidateSplitParams(chunk.ChunkSize, chunk.ChunkOverlap); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	return nil
}

// ValidateSplitParams checks chunk size and overlap bounds shared by the
// splitter and the pipeline entry point.
func ValidateSplitParams(chunkSize, chunkOverlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return fmt.Errorf("%w: got %d for size %d", ErrInvalidOverlap, chunkOverlap, chunkSize)
	}
	return nil
}

// ValidateStrategy checks that a strategy name is one of the supported values.
func ValidateStrategy(strategy ChunkStrategy) error {
	switch strategy {
	case StrategySemantic, StrategyFixed, StrategyHybrid:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
}
