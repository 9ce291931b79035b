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
	"time"

	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/core"
)

const stageCleanup = "cleanup"

// handleCleanupStage deletes the transient chunk records once their vectors
// are safely in the index. When no vectors were ingested the chunks are kept:
// deleting them would destroy the only remaining copy of the prepared data.
func (o *Orchestrator) handleCleanupStage(ctx context.Context, msg bus.Message) {
	var ev core.EmbeddingsIngested
	if err := decodeEvent(msg.Payload, &ev); err != nil {
		o.logger.Error("undecodable ingested event dropped", "topic", msg.Topic, "error", err)
		return
	}
	if !o.idem.MarkProcessed(stageCleanup, ev.ProjectId, ev.CorrelationId) {
		o.logger.Debug("duplicate ingested delivery skipped",
			"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)
		return
	}
	log := o.logger.With("stage", stageCleanup,
		"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)

	deleted := 0
	if ev.VectorCount == 0 {
		log.Info("no vectors ingested, keeping chunks")
	} else {
		errorType, err := o.withRetry(ctx, stageCleanup, ev.EventMeta, func() error {
			n, err := o.chunks.DeleteChunksByProject(ctx, ev.ProjectId)
			if err != nil {
				return core.Transient("delete chunks", err)
			}
			deleted = n
			return nil
		})
		if err != nil {
			o.failRun(ctx, ev.EventMeta, errorType, err)
			return
		}
		log.Info("chunks cleaned up", "deleted", deleted)
	}

	o.setState(ev.EventMeta, StateCleaned, nil)

	st, err := o.Status(ev.CorrelationId)
	elapsed := time.Duration(0)
	if err == nil {
		elapsed = time.Since(st.StartedAt)
	}
	metrics := core.SystemMetrics{
		EventMeta: core.EventMeta{
			ProjectId:     ev.ProjectId,
			CorrelationId: ev.CorrelationId,
			Timestamp:     time.Now(),
		},
		State:      string(StateCleaned),
		ChunkCount: deleted,
		Vectors:    ev.VectorCount,
		Elapsed:    elapsed,
	}
	if err := o.publish(ctx, TopicSystemMetrics, metrics.EventMeta, metrics); err != nil {
		log.Warn("metrics publish failed, dropping", "error", err)
	}
}
