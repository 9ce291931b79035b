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


// Package pipeline orchestrates the RAG preparation pipeline:
// chunk -> embed -> ingest -> cleanup.
//
// Each stage consumes the completion event of its predecessor from the event
// bus, performs its unit of work against an external collaborator, and emits
// either a downstream completion event or a ProcessingError. Stages never
// panic past their own boundary and never forward a downstream event after an
// unrecoverable failure, so a broken run cannot silently continue. Completion
// events carry the data the next stage consumes, so downstream stages do not
// read back what their predecessor just wrote.
//
// The run state machine per (project, correlation id) is
//
//	Requested -> Chunked -> Embedded -> Ingested -> Cleaned | Failed
//
// Failed is terminal and reachable from any non-terminal state. There is no
// automatic resume; a failed run is re-triggered through Prepare with
// DeleteExisting set, which supersedes prior state by deleting data rather
// than interrupting in-flight work.
//
// Deduplication and retry state live in process-local memory. At-least-once
// delivery is therefore collapsed to effectively-once only within a single
// orchestrator instance; duplicate stage execution remains possible across
// restarts or horizontally scaled instances. The IdempotencyStore interface
// is the seam for plugging in a durable shared implementation.
package pipeline
