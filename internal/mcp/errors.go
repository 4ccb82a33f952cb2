package mcp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownMember is returned when an override names a member the
	// model does not contain
	ErrUnknownMember = errors.New("unknown member")

	// ErrNoModel is returned by a session that has not loaded a model yet
	ErrNoModel = errors.New("no model loaded")

	// ErrNotLocked is returned when a locked MCP is required
	ErrNotLocked = errors.New("mcp is not locked")

	// ErrInvalid is returned when a valid MCP is required
	ErrInvalid = errors.New("mcp is not valid")

	// ErrStaleSnapshot is returned when the MCP a snapshot was taken from
	// has been replaced
	ErrStaleSnapshot = errors.New("mcp snapshot is stale")

	// ErrModelMismatch and ErrDimensionMismatch reject persisted records
	// that do not belong to the model they are restored against
	ErrModelMismatch     = errors.New("record belongs to a different model")
	ErrDimensionMismatch = errors.New("stored dimensions disagree with the model")
)

// LockedStateError reports a mutation attempted on a locked MCP
type LockedStateError struct {
	Operation string
}

func (e *LockedStateError) Error() string {
	return fmt.Sprintf("mcp is locked: %s rejected", e.Operation)
}

// ValidationError reports why an MCP could not be locked
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.String())
	}
	return fmt.Sprintf("mcp validation failed with %d error(s): %s", len(e.Issues), strings.Join(msgs, "; "))
}
