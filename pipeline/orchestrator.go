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
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shakedshoshan/RAGify-sub000/ai"
	"github.com/shakedshoshan/RAGify-sub000/bus"
	"github.com/shakedshoshan/RAGify-sub000/core"
	"github.com/shakedshoshan/RAGify-sub000/storage"
	"github.com/shakedshoshan/RAGify-sub000/vectorstore"
)

// RunState is the lifecycle position of a pipeline run.
type RunState string

const (
	StateRequested RunState = "requested"
	StateChunked   RunState = "chunked"
	StateEmbedded  RunState = "embedded"
	StateIngested  RunState = "ingested"
	StateCleaned   RunState = "cleaned"
	StateFailed    RunState = "failed"
)

// RunStatus is a point-in-time snapshot of a run.
type RunStatus struct {
	ProjectId     string
	CorrelationId string
	State         RunState
	ChunkCount    int
	VectorCount   int
	StartedAt     time.Time
	UpdatedAt     time.Time
	LastError     string
}

// PrepareOptions parameterize a pipeline run. A zero ChunkSize selects the
// default size, and the default overlap with it. With an explicit ChunkSize,
// ChunkOverlap is taken literally, so zero overlap stays zero.
type PrepareOptions struct {
	ChunkSize      int
	ChunkOverlap   int
	Strategy       core.ChunkStrategy
	ModelName      string
	DeleteExisting bool
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200

	// defaultUpsertBatchSize bounds one vector-store transaction.
	defaultUpsertBatchSize = 100

	// Fallback deletion limits for stores without a native project filter.
	deleteQueryLimit = 1000
	deleteBatchSize  = 50
)

// Orchestrator owns the topic-to-handler table and the per-run state machine.
// It is safe for concurrent use once Start has returned.
type Orchestrator struct {
	bus      bus.Bus
	docs     storage.DocumentRepository
	chunks   storage.ChunkRepository
	vectors  vectorstore.Store
	embedder ai.Embedder

	retry  *RetryCoordinator
	idem   IdempotencyStore
	linker *ChunkLinker
	logger *slog.Logger

	upsertBatchSize int

	mu   sync.Mutex
	runs map[string]*RunStatus
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithRetryConfig overrides the backoff schedule for transient failures.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(o *Orchestrator) error {
		if cfg.MaxRetries < 0 {
			return fmt.Errorf("max retries cannot be negative")
		}
		if cfg.InitialDelay < 0 || cfg.MaxDelay < cfg.InitialDelay {
			return fmt.Errorf("invalid retry delays")
		}
		if cfg.BackoffFactor < 1 {
			return fmt.Errorf("backoff factor must be >= 1")
		}
		o.retry = NewRetryCoordinator(cfg, o.logger)
		return nil
	}
}

// WithIdempotencyStore replaces the process-local dedup store, the seam for
// durable cross-instance deduplication.
func WithIdempotencyStore(store IdempotencyStore) Option {
	return func(o *Orchestrator) error {
		if store == nil {
			return fmt.Errorf("idempotency store cannot be nil")
		}
		o.idem = store
		return nil
	}
}

// WithUpsertBatchSize bounds one vector-store write transaction.
func WithUpsertBatchSize(size int) Option {
	return func(o *Orchestrator) error {
		if size <= 0 {
			return fmt.Errorf("upsert batch size must be positive")
		}
		o.upsertBatchSize = size
		return nil
	}
}

// NewOrchestrator wires the pipeline stages against their collaborators.
// Call Start to subscribe the stage handlers before publishing any events.
func NewOrchestrator(
	b bus.Bus,
	docs storage.DocumentRepository,
	chunks storage.ChunkRepository,
	vectors vectorstore.Store,
	embedder ai.Embedder,
	opts ...Option,
) (*Orchestrator, error) {
	if b == nil {
		return nil, fmt.Errorf("bus cannot be nil")
	}
	if docs == nil || chunks == nil {
		return nil, fmt.Errorf("repositories cannot be nil")
	}
	if vectors == nil {
		return nil, fmt.Errorf("vector store cannot be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}

	o := &Orchestrator{
		bus:             b,
		docs:            docs,
		chunks:          chunks,
		vectors:         vectors,
		embedder:        embedder,
		logger:          slog.Default(),
		upsertBatchSize: defaultUpsertBatchSize,
		runs:            make(map[string]*RunStatus),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("orchestrator option: %w", err)
		}
	}
	o.logger = o.logger.With("component", "orchestrator")
	if o.retry == nil {
		o.retry = NewRetryCoordinator(DefaultRetryConfig(), o.logger)
	}
	if o.idem == nil {
		o.idem = NewMemoryIdempotencyStore()
	}
	o.linker = NewChunkLinker(chunks, o.logger)
	return o, nil
}

// Start builds the topic-to-handler table. It must be called exactly once,
// before the first Prepare.
func (o *Orchestrator) Start() error {
	subs := []struct {
		topic   string
		handler bus.Handler
	}{
		{TopicPrepareRequested, o.handleChunkStage},
		{TopicDocumentsChunked, o.handleEmbedStage},
		{TopicChunksEmbedded, o.handleIngestStage},
		{TopicEmbeddingsIngested, o.handleCleanupStage},
	}
	for _, s := range subs {
		if err := o.bus.Subscribe(s.topic, s.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}
	}
	return nil
}

// Prepare triggers a pipeline run for the project and returns its
// correlation id. Validation failures are reported synchronously; everything
// after the triggering event is asynchronous and observed through Status.
func (o *Orchestrator) Prepare(ctx context.Context, projectID string, opts PrepareOptions) (string, error) {
	if projectID == "" {
		return "", core.Validation("prepare", core.ErrEmptyProject)
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = defaultChunkSize
		if opts.ChunkOverlap == 0 {
			opts.ChunkOverlap = defaultChunkOverlap
		}
	}
	if opts.Strategy == "" {
		opts.Strategy = core.StrategySemantic
	}
	if err := core.ValidateSplitParams(opts.ChunkSize, opts.ChunkOverlap); err != nil {
		return "", core.Validation("prepare", err)
	}
	if err := core.ValidateStrategy(opts.Strategy); err != nil {
		return "", core.Validation("prepare", err)
	}

	correlationID := uuid.NewString()
	now := time.Now()
	o.mu.Lock()
	o.runs[correlationID] = &RunStatus{
		ProjectId:     projectID,
		CorrelationId: correlationID,
		State:         StateRequested,
		StartedAt:     now,
		UpdatedAt:     now,
	}
	o.mu.Unlock()

	ev := core.PrepareRequested{
		EventMeta: core.EventMeta{
			ProjectId:     projectID,
			CorrelationId: correlationID,
			Timestamp:     now,
		},
		ChunkSize:      opts.ChunkSize,
		ChunkOverlap:   opts.ChunkOverlap,
		Strategy:       opts.Strategy,
		ModelName:      opts.ModelName,
		DeleteExisting: opts.DeleteExisting,
	}
	if err := o.publish(ctx, TopicPrepareRequested, ev.EventMeta, ev); err != nil {
		o.failState(ev.EventMeta, err)
		return "", err
	}
	o.logger.Info("pipeline run requested",
		"projectId", projectID, "correlationId", correlationID,
		"chunkSize", opts.ChunkSize, "chunkOverlap", opts.ChunkOverlap,
		"strategy", opts.Strategy)
	return correlationID, nil
}

// Status returns the current snapshot of a run.
func (o *Orchestrator) Status(correlationID string) (RunStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.runs[correlationID]
	if !ok {
		return RunStatus{}, fmt.Errorf("%w: %s", ErrUnknownRun, correlationID)
	}
	return *st, nil
}

func (o *Orchestrator) publish(ctx context.Context, topic string, meta core.EventMeta, ev any) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return core.Systemic("publish "+topic, err)
	}
	if err := o.bus.Publish(ctx, topic, meta.ProjectId, data); err != nil {
		return core.Systemic("publish "+topic, err)
	}
	return nil
}

// setState advances the run state machine and records stage counters.
func (o *Orchestrator) setState(meta core.EventMeta, state RunState, update func(*RunStatus)) {
	o.mu.Lock()
	st, ok := o.runs[meta.CorrelationId]
	if !ok {
		// Event originated elsewhere (or before a restart); track it anyway.
		st = &RunStatus{
			ProjectId:     meta.ProjectId,
			CorrelationId: meta.CorrelationId,
			StartedAt:     meta.Timestamp,
		}
		o.runs[meta.CorrelationId] = st
	}
	if st.State != StateFailed {
		st.State = state
	}
	st.UpdatedAt = time.Now()
	if update != nil {
		update(st)
	}
	o.mu.Unlock()
}

func (o *Orchestrator) failState(meta core.EventMeta, cause error) {
	o.setState(meta, StateFailed, func(st *RunStatus) {
		st.State = StateFailed
		st.LastError = cause.Error()
	})
}

// failRun marks the run failed and publishes a ProcessingError. The error
// publish is best effort: if the bus itself is down the failure is logged and
// swallowed, since there is nowhere left to report it.
func (o *Orchestrator) failRun(ctx context.Context, meta core.EventMeta, errorType string, cause error) {
	o.failState(meta, cause)
	o.logger.Error("pipeline stage failed",
		"projectId", meta.ProjectId, "correlationId", meta.CorrelationId,
		"errorType", errorType, "kind", core.KindOf(cause), "error", cause)

	ev := core.ProcessingError{
		EventMeta: core.EventMeta{
			ProjectId:     meta.ProjectId,
			CorrelationId: meta.CorrelationId,
			Timestamp:     time.Now(),
		},
		ErrorType: errorType,
		Kind:      core.KindOf(cause),
		Message:   cause.Error(),
	}
	if err := o.publish(ctx, TopicProcessingError, ev.EventMeta, ev); err != nil {
		o.logger.Error("error event publish failed, dropping",
			"correlationId", meta.CorrelationId, "error", err)
	}
}

// withRetry runs fn, retrying transient failures on the coordinator's backoff
// schedule. Non-transient failures return immediately. When the retry budget
// is exhausted the returned error carries the MAX_RETRIES_EXCEEDED type.
func (o *Orchestrator) withRetry(ctx context.Context, stage string, meta core.EventMeta, fn func() error) (string, error) {
	opKey := OpKey(stage, meta.ProjectId, meta.CorrelationId)
	for {
		err := fn()
		if err == nil {
			o.retry.Resolve(opKey)
			return "", nil
		}
		if core.KindOf(err) != core.KindTransient {
			return strings.ToUpper(stage) + "_FAILED", err
		}
		if o.retry.Retries(opKey) < o.retry.cfg.MaxRetries {
			o.publishRetryNotice(ctx, stage, meta, err)
		}
		if !o.retry.Handle(ctx, opKey, err) {
			return strings.ToUpper(stage) + "_MAX_RETRIES_EXCEEDED", err
		}
	}
}

// publishRetryNotice emits a transient error event for a scheduled retry, so
// monitoring sees the run waiting out a backoff window instead of silence.
// Emitted before the backoff wait, best effort.
func (o *Orchestrator) publishRetryNotice(ctx context.Context, stage string, meta core.EventMeta, cause error) {
	ev := core.ProcessingError{
		EventMeta: core.EventMeta{
			ProjectId:     meta.ProjectId,
			CorrelationId: meta.CorrelationId,
			Timestamp:     time.Now(),
		},
		ErrorType: strings.ToUpper(stage) + "_RETRY",
		Kind:      core.KindTransient,
		Message:   cause.Error(),
	}
	if err := o.publish(ctx, TopicProcessingError, ev.EventMeta, ev); err != nil {
		o.logger.Warn("retry notice publish failed, dropping",
			"correlationId", meta.CorrelationId, "error", err)
	}
}
