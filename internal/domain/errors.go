package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrDepthExceeded = errors.New("depth exceeded")
	ErrInvalidParent = errors.New("invalid parent")
	ErrCycleDetected = errors.New("cycle detected")
	ErrInvalidRange  = errors.New("invalid range")
)

// Domain error types implementing HTTPError
type (
	// NotFoundError indicates a required scope or entity does not exist
	NotFoundError struct {
		ResourceType string
		ResourceID   string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// DepthExceededError reports that a create or reparent would place a node
	// (or one of its descendants) deeper than the configured maximum.
	DepthExceededError struct {
		NodeID   string // empty for a node that does not exist yet
		Depth    int    // deepest depth the operation would produce
		MaxDepth int    // deepest depth allowed (levels - 1)
	}

	// InvalidParentError reports a parent that is missing, lives in another
	// container, or is the node itself.
	InvalidParentError struct {
		ParentID string
		Reason   string
	}

	// CycleDetectedError reports a proposed parent that is a descendant of the moved node.
	CycleDetectedError struct {
		NodeID   string
		ParentID string
	}

	// InvalidRangeError reports reorder indices outside [0, Count).
	InvalidRangeError struct {
		FromIndex int
		ToIndex   int
		Count     int
		Reason    string
	}
)

func (e *NotFoundError) Error() string {
	if e.ResourceType == "" {
		return fmt.Sprintf("%s: not found", e.ResourceID)
	}
	return fmt.Sprintf("%s %s: not found", e.ResourceType, e.ResourceID)
}

func (e *ValidationError) Error() string { return e.Message }

func (e *DepthExceededError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("depth %d exceeds maximum depth %d", e.Depth, e.MaxDepth)
	}
	return fmt.Sprintf("node %s: depth %d exceeds maximum depth %d", e.NodeID, e.Depth, e.MaxDepth)
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("invalid parent %s: %s", e.ParentID, e.Reason)
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cannot move node %s under %s: parent is its own descendant", e.NodeID, e.ParentID)
}

func (e *InvalidRangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid reorder %d -> %d (count %d): %s", e.FromIndex, e.ToIndex, e.Count, e.Reason)
	}
	return fmt.Sprintf("invalid reorder %d -> %d: indices must be within [0, %d)", e.FromIndex, e.ToIndex, e.Count)
}

func (e *NotFoundError) StatusCode() int       { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int     { return http.StatusBadRequest }
func (e *DepthExceededError) StatusCode() int  { return http.StatusUnprocessableEntity }
func (e *InvalidParentError) StatusCode() int  { return http.StatusUnprocessableEntity }
func (e *CycleDetectedError) StatusCode() int  { return http.StatusUnprocessableEntity }
func (e *InvalidRangeError) StatusCode() int   { return http.StatusBadRequest }

// Is lets errors.Is match typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool      { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool    { return target == ErrValidation }
func (e *DepthExceededError) Is(target error) bool { return target == ErrDepthExceeded }
func (e *InvalidParentError) Is(target error) bool { return target == ErrInvalidParent }
func (e *CycleDetectedError) Is(target error) bool { return target == ErrCycleDetected }
func (e *InvalidRangeError) Is(target error) bool  { return target == ErrInvalidRange }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (workspace, container, note, node)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewNotFound builds a NotFoundError for the given resource.
func NewNotFound(resourceType, id string) error {
	return &NotFoundError{ResourceType: resourceType, ResourceID: id}
}
