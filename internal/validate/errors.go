package validate

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateNode reports two node instances sharing one id.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrUnknownNodeType reports a node whose type id is not registered.
	ErrUnknownNodeType = errors.New("unknown node type")
	// ErrUnknownPin reports an edge whose endpoint node or pin does not exist.
	ErrUnknownPin = errors.New("unknown pin")
	// ErrTypeMismatch reports an edge joining incompatible pin types.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrCycle reports a graph whose edges form a directed cycle.
	ErrCycle = errors.New("cycle detected")
)

// Error is a validation failure. Err is one of the sentinel errors above;
// NodeID and EdgeID point at the offending element when there is one.
type Error struct {
	Err    error
	NodeID uuid.UUID
	EdgeID uuid.UUID
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}
