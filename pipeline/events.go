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
	"encoding/json"
	"fmt"
)

// Topics carried on the event bus. Keys are always the project id, so a
// partitioned bus implementation keeps per-project ordering.
const (
	TopicPrepareRequested   = "rag.prepare.requested"
	TopicDocumentsChunked   = "rag.documents.chunked"
	TopicChunksEmbedded     = "rag.chunks.embedded"
	TopicEmbeddingsIngested = "rag.embeddings.ingested"
	TopicProcessingError    = "rag.processing.error"
	TopicSystemMetrics      = "rag.system.metrics"
)

func encodeEvent(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeEvent, err)
	}
	return data, nil
}

func decodeEvent(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeEvent, err)
	}
	return nil
}
