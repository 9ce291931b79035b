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
	"fmt"
	"time"

	"github.com/shakedshoshan/RAGify-sub000/ai"
	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/core"
)

const stageEmbed = "embed"

func (o *Orchestrator) handleEmbedStage(ctx context.Context, msg bus.Message) {
	var ev core.DocumentsChunked
	if err := decodeEvent(msg.Payload, &ev); err != nil {
		o.logger.Error("undecodable chunked event dropped", "topic", msg.Topic, "error", err)
		return
	}
	if !o.idem.MarkProcessed(stageEmbed, ev.ProjectId, ev.CorrelationId) {
		o.logger.Debug("duplicate chunked delivery skipped",
			"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)
		return
	}
	log := o.logger.With("stage", stageEmbed,
		"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)

	texts := make([]string, len(ev.Chunks))
	for i, c := range ev.Chunks {
		texts[i] = c.Content
	}

	embed := o.embedder.EmbedTexts
	if ev.ModelName != "" {
		if me, ok := o.embedder.(ai.ModelEmbedder); ok {
			embed = func(ctx context.Context, texts []string) ([][]float32, error) {
				return me.EmbedTextsWithModel(ctx, texts, ev.ModelName)
			}
		} else {
			log.Warn("embedder has a fixed model, ignoring requested model",
				"model", ev.ModelName)
		}
	}

	var embeddings [][]float32
	if len(texts) > 0 {
		errorType, err := o.withRetry(ctx, stageEmbed, ev.EventMeta, func() error {
			em, err := embed(ctx, texts)
			if err != nil {
				return core.Transient("embed texts", err)
			}
			if len(em) != len(texts) {
				return core.Transient("embed texts",
					fmt.Errorf("provider returned %d embeddings for %d texts", len(em), len(texts)))
			}
			embeddings = em
			return nil
		})
		if err != nil {
			o.failRun(ctx, ev.EventMeta, errorType, err)
			return
		}
	}

	vectors := make([]core.Vector, len(ev.Chunks))
	for i, c := range ev.Chunks {
		vectors[i] = core.Vector{
			Id:     vectorID(ev.ProjectId, c),
			Values: embeddings[i],
			Metadata: core.VectorMetadata{
				Content:    c.Content,
				Source:     c.SourceName,
				ProjectId:  ev.ProjectId,
				ChunkId:    c.Id,
				ChunkIndex: c.ChunkIndex,
				StartIndex: c.StartIndex,
				EndIndex:   c.EndIndex,
			},
		}
	}
	log.Info("chunks embedded", "chunks", len(ev.Chunks), "vectors", len(vectors))

	out := core.ChunksEmbedded{
		EventMeta: core.EventMeta{
			ProjectId:     ev.ProjectId,
			CorrelationId: ev.CorrelationId,
			Timestamp:     time.Now(),
		},
		Vectors: vectors,
	}
	o.setState(ev.EventMeta, StateEmbedded, func(st *RunStatus) {
		st.VectorCount = len(vectors)
	})
	if err := o.publish(ctx, TopicChunksEmbedded, out.EventMeta, out); err != nil {
		o.failRun(ctx, ev.EventMeta, "PUBLISH_FAILED", err)
	}
}

// vectorID derives a stable vector identity from the chunk's position and
// content. Re-running the pipeline over unchanged documents produces the same
// IDs, so the upsert overwrites instead of duplicating.
func vectorID(projectID string, c core.ChunkPayload) core.ID {
	return core.IDFromContent(fmt.Sprintf("%s|%d|%d|%s",
		projectID, c.SourceId, c.ChunkIndex, c.Content))
}
