package connector

import (
	"errors"
	"fmt"

	"digital.vasic.smbconnector/pkg/client"
)

var (
	// ErrConnectionFailed is returned by Enter when the protocol client could
	// not connect.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrRemoteOperationFailed is matched by every error a protocol call
	// returns through a Session.
	ErrRemoteOperationFailed = errors.New("remote operation failed")

	// ErrDirectoryAlreadyExists is the only failure CreateDirectory tolerates
	// while walking path components.
	ErrDirectoryAlreadyExists = client.ErrAlreadyExists

	// ErrSessionNotOpen is returned by operations on a session that was never
	// entered.
	ErrSessionNotOpen = errors.New("session not entered")

	// ErrSessionAlreadyOpen is returned when entering an entered session.
	ErrSessionAlreadyOpen = errors.New("session already entered")

	// ErrSessionClosed is returned by operations on an exited session.
	ErrSessionClosed = errors.New("session closed")
)

// RemoteError records a failed protocol call and the remote path it
// addressed. It matches both ErrRemoteOperationFailed and the protocol error.
type RemoteError struct {
	Op   string
	Path string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteOperationFailed, e.Err}
}

func remoteError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Path: path, Err: err}
}
