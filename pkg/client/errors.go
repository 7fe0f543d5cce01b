package client

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotConnected is returned by every operation issued before Connect.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyExists indicates the target path already exists.
	ErrAlreadyExists = fs.ErrExist

	// ErrNotFound indicates the target path does not exist.
	ErrNotFound = fs.ErrNotExist

	// ErrPermission indicates the server refused the operation.
	ErrPermission = fs.ErrPermission

	// ErrInvalidTarget indicates a file was addressed as a directory or the
	// reverse.
	ErrInvalidTarget = errors.New("invalid target type")

	// ErrNoMatch indicates a delete pattern matched no entry.
	ErrNoMatch = fmt.Errorf("no entry matches pattern: %w", fs.ErrNotExist)
)

// KindError attaches one of the error kinds above to a protocol error while
// keeping the protocol error's message.
type KindError struct {
	Kind error
	Err  error
}

func (e *KindError) Error() string {
	return e.Err.Error()
}

func (e *KindError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// WithKind classifies err as kind. A nil kind or err leaves err unchanged.
func WithKind(kind, err error) error {
	if kind == nil || err == nil || errors.Is(err, kind) {
		return err
	}
	return &KindError{Kind: kind, Err: err}
}
