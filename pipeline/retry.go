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
	"strings"
	"sync"
	"time"
)

// RetryConfig bounds the exponential backoff applied to transient stage
// failures.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the production backoff schedule:
// 1s, 2s, 4s, 8s, 16s, capped at 60s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Delay returns the backoff delay for the given zero-based retry count,
// capped at MaxDelay.
func (c RetryConfig) Delay(retryCount int) time.Duration {
	delay := c.InitialDelay
	for i := 0; i < retryCount; i++ {
		delay = time.Duration(float64(delay) * c.BackoffFactor)
		if delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

type retryState struct {
	retryCount  int
	lastAttempt time.Time
}

// RetryCoordinator tracks retry counts per operation key and applies the
// exponential backoff schedule. State is process-local; a restart resets all
// counts, which at worst causes an operation to be retried a full schedule
// again under at-least-once delivery.
type RetryCoordinator struct {
	cfg    RetryConfig
	logger *slog.Logger

	mu     sync.Mutex
	states map[string]*retryState
}

func NewRetryCoordinator(cfg RetryConfig, logger *slog.Logger) *RetryCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryCoordinator{
		cfg:    cfg,
		logger: logger.With("component", "retry-coordinator"),
		states: make(map[string]*retryState),
	}
}

// OpKey builds the retry state key for a stage operation within a run.
func OpKey(stage, projectID, correlationID string) string {
	return strings.Join([]string{stage, projectID, correlationID}, "|")
}

// Handle records a transient failure for opKey and decides whether the
// operation should run again. When the retry budget is exhausted it drops the
// state and returns false; the caller must then fail the run terminally.
// Otherwise it blocks for the backoff delay (or until ctx is done) and
// returns true so the caller re-executes the operation.
func (r *RetryCoordinator) Handle(ctx context.Context, opKey string, cause error) bool {
	r.mu.Lock()
	st, ok := r.states[opKey]
	if !ok {
		st = &retryState{}
		r.states[opKey] = st
	}
	if st.retryCount >= r.cfg.MaxRetries {
		delete(r.states, opKey)
		r.mu.Unlock()
		r.logger.Error("retry budget exhausted",
			"op", opKey, "retries", r.cfg.MaxRetries, "error", cause)
		return false
	}
	delay := r.cfg.Delay(st.retryCount)
	st.retryCount++
	st.lastAttempt = time.Now()
	attempt := st.retryCount
	r.mu.Unlock()

	r.logger.Warn("transient failure, backing off",
		"op", opKey, "attempt", attempt, "maxRetries", r.cfg.MaxRetries,
		"delay", delay, "error", cause)

	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return false
	case <-timer.C:
		return true
	}
}

// Resolve clears retry state for opKey after the operation succeeds, so a
// later transient failure of the same operation starts a fresh schedule.
func (r *RetryCoordinator) Resolve(opKey string) {
	r.mu.Lock()
	delete(r.states, opKey)
	r.mu.Unlock()
}

// Retries reports the current retry count for opKey.
func (r *RetryCoordinator) Retries(opKey string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[opKey]; ok {
		return st.retryCount
	}
	return 0
}
