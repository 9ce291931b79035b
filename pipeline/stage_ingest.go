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
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
)

const stageIngest = "ingest"

// fallbackDeleteRate spaces delete batches for stores that rate limit writes.
var fallbackDeleteRate = rate.Every(100 * time.Millisecond)

func (o *Orchestrator) handleIngestStage(ctx context.Context, msg bus.Message) {
	var ev core.ChunksEmbedded
	if err := decodeEvent(msg.Payload, &ev); err != nil {
		o.logger.Error("undecodable embedded event dropped", "topic", msg.Topic, "error", err)
		return
	}
	if !o.idem.MarkProcessed(stageIngest, ev.ProjectId, ev.CorrelationId) {
		o.logger.Debug("duplicate embedded delivery skipped",
			"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)
		return
	}
	log := o.logger.With("stage", stageIngest,
		"projectId", ev.ProjectId, "correlationId", ev.CorrelationId)

	if len(ev.Vectors) == 0 {
		log.Info("no vectors to ingest")
		o.emitIngested(ctx, ev.EventMeta, 0)
		return
	}

	// Destructive precondition: the project's old vectors must be fully gone
	// before any new vector is written. A partial delete aborts the run.
	var res vectorstore.DeleteResult
	errorType, err := o.withRetry(ctx, stageIngest, ev.EventMeta, func() error {
		r, err := o.deleteProjectVectors(ctx, ev.ProjectId, ev.Vectors[0].Values)
		if err != nil {
			if core.KindOf(err) == core.KindConsistency {
				return err
			}
			return core.Transient("delete project vectors", err)
		}
		res = r
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPartialVectorDelete) {
			errorType = "VECTOR_DELETE_PARTIAL_FAILURE"
		} else if errors.Is(err, ErrResidualVectors) {
			errorType = "VECTOR_DELETE_VERIFICATION_FAILED"
		}
		o.failRun(ctx, ev.EventMeta, errorType, err)
		return
	}
	if res.Deleted > 0 {
		log.Info("existing vectors deleted", "deleted", res.Deleted)
	}

	var upserted int
	errorType, err = o.withRetry(ctx, stageIngest, ev.EventMeta, func() error {
		n, err := o.vectors.Upsert(ctx, ev.ProjectId, ev.Vectors, o.upsertBatchSize)
		if err != nil {
			return core.Transient("upsert vectors", err)
		}
		upserted = n
		return nil
	})
	if err != nil {
		o.failRun(ctx, ev.EventMeta, errorType, err)
		return
	}
	log.Info("embeddings ingested", "vectors", upserted)
	o.emitIngested(ctx, ev.EventMeta, upserted)
}

func (o *Orchestrator) emitIngested(ctx context.Context, meta core.EventMeta, count int) {
	out := core.EmbeddingsIngested{
		EventMeta: core.EventMeta{
			ProjectId:     meta.ProjectId,
			CorrelationId: meta.CorrelationId,
			Timestamp:     time.Now(),
		},
		VectorCount: count,
	}
	o.setState(meta, StateIngested, func(st *RunStatus) {
		st.VectorCount = count
	})
	if err := o.publish(ctx, TopicEmbeddingsIngested, out.EventMeta, out); err != nil {
		o.failRun(ctx, meta, "PUBLISH_FAILED", err)
	}
}

// deleteProjectVectors removes every vector of the project and verifies the
// index is empty afterwards. probe is any vector of the project's
// dimensionality, used for the query-based fallback and the verification.
func (o *Orchestrator) deleteProjectVectors(ctx context.Context, projectID string, probe []float32) (vectorstore.DeleteResult, error) {
	res, err := o.vectors.DeleteAllByProject(ctx, projectID)
	if errors.Is(err, vectorstore.ErrDeleteByProjectUnsupported) {
		res, err = o.fallbackDelete(ctx, projectID, probe)
	}
	if err != nil {
		if res.Deleted > 0 {
			return res, core.Consistency("delete project vectors",
				fmt.Errorf("%w: %d deleted before failure: %w",
					ErrPartialVectorDelete, res.Deleted, err))
		}
		return res, err
	}
	if res.Deleted > 0 && !res.Success {
		return res, core.Consistency("delete project vectors",
			fmt.Errorf("%w: %d deleted", ErrPartialVectorDelete, res.Deleted))
	}

	matches, err := o.vectors.Query(ctx, projectID, probe, 1)
	if err != nil {
		return res, err
	}
	if len(matches) > 0 {
		return res, core.Consistency("delete project vectors", ErrResidualVectors)
	}
	return res, nil
}

// fallbackDelete implements project deletion for stores without a native
// project filter: query up to deleteQueryLimit vectors at a time, then delete
// them in batches of deleteBatchSize, rate limited between batches.
func (o *Orchestrator) fallbackDelete(ctx context.Context, projectID string, probe []float32) (vectorstore.DeleteResult, error) {
	limiter := rate.NewLimiter(fallbackDeleteRate, 1)
	total := 0
	for {
		matches, err := o.vectors.Query(ctx, projectID, probe, deleteQueryLimit)
		if err != nil {
			return vectorstore.DeleteResult{Deleted: total, Success: false}, err
		}
		if len(matches) == 0 {
			return vectorstore.DeleteResult{Deleted: total, Success: true}, nil
		}
		ids := make([]core.ID, len(matches))
		for i, m := range matches {
			ids[i] = m.Id
		}
		for start := 0; start < len(ids); start += deleteBatchSize {
			end := min(start+deleteBatchSize, len(ids))
			if err := limiter.Wait(ctx); err != nil {
				return vectorstore.DeleteResult{Deleted: total, Success: false}, err
			}
			n, err := o.vectors.DeleteByIDs(ctx, projectID, ids[start:end])
			total += n
			if err != nil {
				return vectorstore.DeleteResult{Deleted: total, Success: false}, err
			}
		}
	}
}
