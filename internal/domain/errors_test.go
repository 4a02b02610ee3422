package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
		kind     ErrorKind
	}{
		{
			name:     "depth exceeded",
			err:      &DepthExceededError{Depth: 3, MaxDepth: 2},
			sentinel: ErrDepthExceeded,
			status:   http.StatusUnprocessableEntity,
			kind:     KindDepthExceeded,
		},
		{
			name:     "invalid parent",
			err:      &InvalidParentError{ParentID: "p", Reason: "different container"},
			sentinel: ErrInvalidParent,
			status:   http.StatusUnprocessableEntity,
			kind:     KindInvalidParent,
		},
		{
			name:     "cycle detected",
			err:      &CycleDetectedError{NodeID: "a", ParentID: "b"},
			sentinel: ErrCycleDetected,
			status:   http.StatusUnprocessableEntity,
			kind:     KindCycleDetected,
		},
		{
			name:     "invalid range",
			err:      &InvalidRangeError{FromIndex: 5, ToIndex: 0, Count: 3},
			sentinel: ErrInvalidRange,
			status:   http.StatusBadRequest,
			kind:     KindInvalidRange,
		},
		{
			name:     "not found",
			err:      NewNotFound("node", "n1"),
			sentinel: ErrNotFound,
			status:   http.StatusNotFound,
			kind:     KindNotFound,
		},
		{
			name:     "conflict",
			err:      &ConflictError{Message: "exists"},
			sentinel: ErrConflict,
			status:   http.StatusConflict,
			kind:     KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("operation failed: %w", tt.err)

			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.sentinel)
			}

			var httpErr HTTPError
			if !errors.As(wrapped, &httpErr) {
				t.Fatalf("errors.As(HTTPError) = false")
			}
			if httpErr.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", httpErr.StatusCode(), tt.status)
			}

			if got := KindOf(wrapped); got != tt.kind {
				t.Errorf("KindOf() = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestKindOf_WrappedSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{err: nil, want: KindNone},
		{err: fmt.Errorf("%w: bad title", ErrValidation), want: KindValidation},
		{err: fmt.Errorf("access denied: %w", ErrForbidden), want: KindForbidden},
		{err: errors.New("connection reset"), want: KindInternal},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	if msg := UserMessage(KindDepthExceeded); msg == "" {
		t.Error("depth exceeded should have an action-oriented message")
	}
	if msg := UserMessage(KindInternal); msg != "" {
		t.Errorf("internal errors should not expose a message, got %q", msg)
	}
}
