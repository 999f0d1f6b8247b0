package game

import "github.com/pkg/errors"

// Error kinds. Errors returned by this module wrap exactly one of these, so callers
// can test them with errors.Is.
var (
	ErrValidation            = errors.New("validation error")
	ErrIDOverflow            = errors.New("state id overflow")
	ErrTerminalHasNoChildren = errors.New("terminal state has no children")
	ErrRootHasNoParent       = errors.New("root state has no parent")
)
