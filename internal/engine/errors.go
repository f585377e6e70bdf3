package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrMissingExecutor reports a scheduled node whose type has no executor.
	ErrMissingExecutor = errors.New("missing executor")
	// ErrExec reports an executor failure.
	ErrExec = errors.New("execution error")
	// ErrCanceled reports a run stopped by its context.
	ErrCanceled = errors.New("run canceled")
)

// RunError is a failure raised while evaluating a node. Err is one of the
// sentinel errors above.
type RunError struct {
	Err     error
	NodeID  uuid.UUID
	TypeID  string
	Message string

	cause error
}

func (e *RunError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingExecutor):
		return fmt.Sprintf("%s for node type '%s'", e.Err, e.TypeID)
	case e.Message != "":
		return fmt.Sprintf("%s in node %s (%s): %s", e.Err, e.NodeID, e.TypeID, e.Message)
	default:
		return fmt.Sprintf("%s in node %s (%s)", e.Err, e.NodeID, e.TypeID)
	}
}

// Unwrap exposes both the sentinel and, when present, the underlying cause.
func (e *RunError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.cause}
}
