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

import "errors"

var (
	ErrEncodeEvent = errors.New("encode event")
	ErrDecodeEvent = errors.New("decode event")

	// ErrUnknownRun is returned by Status for a correlation id the
	// orchestrator has never seen.
	ErrUnknownRun = errors.New("unknown run")

	// ErrPartialVectorDelete aborts ingestion when the destructive delete
	// removed some vectors but did not complete. Upserting on top of a
	// half-deleted project would mix stale and fresh vectors.
	ErrPartialVectorDelete = errors.New("partial vector delete")

	// ErrResidualVectors aborts ingestion when vectors remain after a delete
	// that reported success.
	ErrResidualVectors = errors.New("residual vectors after delete")
)
