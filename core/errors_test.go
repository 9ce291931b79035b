package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", Validation("op", cause), KindValidation},
		{"transient", Transient("op", cause), KindTransient},
		{"consistency", Consistency("op", cause), KindConsistency},
		{"systemic", Systemic("op", cause), KindSystemic},
		{"untagged", cause, KindUnknown},
		{"nil", nil, KindUnknown},
		{"wrapped once", fmt.Errorf("outer: %w", Transient("op", cause)), KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipelineErrorUnwrap(t *testing.T) {
	err := Transient("embed texts", ErrNoDocuments)

	if !errors.Is(err, ErrNoDocuments) {
		t.Error("PipelineError should unwrap to its cause")
	}

	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As should find PipelineError")
	}
	if pe.Op != "embed texts" {
		t.Errorf("Op = %q, want %q", pe.Op, "embed texts")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindValidation, "validation"},
		{KindTransient, "transient"},
		{KindConsistency, "consistency"},
		{KindSystemic, "systemic"},
		{KindUnknown, "unknown"},
		{ErrorKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
