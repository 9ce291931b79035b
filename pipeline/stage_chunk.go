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
	"errors"
	"log/slog"
	"time"

	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/splitter"
	"github.com/shakedshoshan/RAGify-sub000/storage"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
)

const stageChunk = "chunk"

// chunkKeywordLimit caps the keyword list extracted per chunk.
const chunkKeywordLimit = 8

func (o *Orchestrator) handleChunkStage(ctx context.Context, msg bus.Message) {
	var ev core.PrepareRequested
	if err := decodeEvent(msg.Payload, &ev); err != nil {
		o.logger.Error("undecodable prepare event dropped", "topic", msg.Topic, "error", err)
		return
	}
	if !o.idem.MarkProcessed(stageChunk, ev.ProjectId, ev.CorrelationId) {
		o.logger.Debug("duplicate prepare delivery skipped",
			"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)
		return
	}
	log := o.logger.With("stage", stageChunk,
		"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)

	if ev.DeleteExisting {
		if err := o.deleteExisting(ctx, ev.ProjectId, log); err != nil {
			o.failRun(ctx, ev.EventMeta, "DELETE_EXISTING_FAILED", err)
			return
		}
	}

	var texts []storage.RawText
	errorType, err := o.withRetry(ctx, stageChunk, ev.EventMeta, func() error {
		raw, err := o.docs.ListRawTexts(ctx, ev.ProjectId)
		if err != nil {
			return core.Transient("list raw texts", err)
		}
		texts = raw
		return nil
	})
	if err != nil {
		o.failRun(ctx, ev.EventMeta, errorType, err)
		return
	}
	if len(texts) == 0 {
		o.failRun(ctx, ev.EventMeta, "NO_DOCUMENTS",
			core.Validation("chunk", core.ErrNoDocuments))
		return
	}

	var chunks []*core.Chunk
	for _, doc := range texts {
		pieces, err := splitter.Split(doc.Text, ev.ChunkSize, ev.ChunkOverlap, ev.Strategy)
		if err != nil {
			o.failRun(ctx, ev.EventMeta, "SPLIT_FAILED", err)
			return
		}
		for i, p := range pieces {
			chunks = append(chunks, &core.Chunk{
				Content:      p.Content,
				StartIndex:   p.StartIndex,
				EndIndex:     p.EndIndex,
				SourceId:     doc.Id,
				SourceName:   doc.Name,
				ChunkIndex:   i,
				TotalChunks:  len(pieces),
				ProjectId:    ev.ProjectId,
				ChunkSize:    ev.ChunkSize,
				ChunkOverlap: ev.ChunkOverlap,
				ContentType:  doc.ContentType,
				Keywords:     core.Keywords(p.Content, chunkKeywordLimit),
			})
		}
	}

	var saved []*core.Chunk
	errorType, err = o.withRetry(ctx, stageChunk, ev.EventMeta, func() error {
		s, err := o.chunks.SaveChunks(ctx, chunks...)
		if err != nil {
			if core.KindOf(err) == core.KindValidation {
				return err
			}
			return core.Transient("save chunks", err)
		}
		saved = s
		return nil
	})
	if err != nil {
		o.failRun(ctx, ev.EventMeta, errorType, err)
		return
	}

	// Linking is scoped to one source document; a chain crossing sources
	// would stitch unrelated texts together at retrieval time.
	linked := 0
	for start := 0; start < len(saved); {
		end := start + 1
		for end < len(saved) && saved[end].SourceId == saved[start].SourceId {
			end++
		}
		linked += o.linker.Link(ctx, saved[start:end])
		start = end
	}
	log.Info("documents chunked",
		"docs", len(texts), "chunks", len(saved), "linked", linked)

	payloads := make([]core.ChunkPayload, len(saved))
	for i, c := range saved {
		payloads[i] = core.ChunkPayload{
			Id:         c.Id,
			Content:    c.Content,
			SourceId:   c.SourceId,
			SourceName: c.SourceName,
			ChunkIndex: c.ChunkIndex,
			StartIndex: c.StartIndex,
			EndIndex:   c.EndIndex,
		}
	}
	out := core.DocumentsChunked{
		EventMeta: core.EventMeta{
			ProjectId:     ev.ProjectId,
			CorrelationId: ev.CorrelationId,
			Timestamp:     time.Now(),
		},
		Chunks:    payloads,
		DocCount:  len(texts),
		ModelName: ev.ModelName,
	}
	o.setState(ev.EventMeta, StateChunked, func(st *RunStatus) {
		st.ChunkCount = len(saved)
	})
	if err := o.publish(ctx, TopicDocumentsChunked, out.EventMeta, out); err != nil {
		o.failRun(ctx, ev.EventMeta, "PUBLISH_FAILED", err)
	}
}

// deleteExisting clears a project's chunks and vectors before a superseding
// run. A vector store without a native project filter is tolerated here; the
// ingest stage replaces the project's vectors anyway.
func (o *Orchestrator) deleteExisting(ctx context.Context, projectID string, log *slog.Logger) error {
	deleted, err := o.chunks.DeleteChunksByProject(ctx, projectID)
	if err != nil {
		return core.Transient("delete existing chunks", err)
	}
	res, err := o.vectors.DeleteAllByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, vectorstore.ErrDeleteByProjectUnsupported) {
			log.Warn("vector store has no project delete, deferring to ingest")
		} else {
			return core.Transient("delete existing vectors", err)
		}
	}
	log.Info("existing data deleted", "chunks", deleted, "vectors", res.Deleted)
	return nil
}
