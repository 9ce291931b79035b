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

import (
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidOffsets indicates chunk offsets violate 0 <= start < end.
	ErrInvalidOffsets = errors.New("invalid chunk offsets")

	// ErrEmptyProject indicates a missing project identifier.
	ErrEmptyProject = errors.New("project id cannot be empty")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than 0")

	// ErrInvalidOverlap indicates overlap is negative or >= chunk size.
	ErrInvalidOverlap = errors.New("chunk overlap must be in [0, chunk size)")

	// ErrInvalidStrategy indicates an unknown chunking strategy.
	ErrInvalidStrategy = errors.New("unknown chunking strategy")

	// ErrNoDocuments indicates a project has no raw documents to chunk.
	ErrNoDocuments = errors.New("project has no documents")
)

// ErrorKind classifies a pipeline failure so retry policy can be decided by
// type rather than by inspecting error messages.
type ErrorKind int

const (
	// KindUnknown is the zero value; treated as non-retryable.
	KindUnknown ErrorKind = iota
	// KindValidation marks bad input. Fails fast, never retried.
	KindValidation
	// KindTransient marks failures expected to clear on their own, such as
	// provider timeouts or rate limits. Retried with backoff.
	KindTransient
	// KindConsistency marks partial failures that risk mixed state. Never
	// retried automatically; the run aborts so an operator can intervene.
	KindConsistency
	// KindSystemic marks infrastructure failures such as an unreachable bus.
	KindSystemic
)

// String returns the kind's wire name.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindConsistency:
		return "consistency"
	case KindSystemic:
		return "systemic"
	default:
		return "unknown"
	}
}

// PipelineError tags an underlying error with an ErrorKind and the operation
// that produced it.
type PipelineError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Validation wraps err as a validation failure.
func Validation(op string, err error) error {
	return &PipelineError{Kind: KindValidation, Op: op, Err: err}
}

// Transient wraps err as a retryable failure.
func Transient(op string, err error) error {
	return &PipelineError{Kind: KindTransient, Op: op, Err: err}
}

// Consistency wraps err as a partial-failure that must abort the run.
func Consistency(op string, err error) error {
	return &PipelineError{Kind: KindConsistency, Op: op, Err: err}
}

// Systemic wraps err as an infrastructure failure.
func Systemic(op string, err error) error {
	return &PipelineError{Kind: KindSystemic, Op: op, Err: err}
}

// KindOf extracts the ErrorKind from an error chain.
// Untagged errors report KindUnknown.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
