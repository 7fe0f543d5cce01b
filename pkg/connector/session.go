// Package connector exposes a remote file share through a small file-store
// API: listing, reading, writing, creating and deleting directories and
// files, and copying or moving files. Every caller path is relative to the
// configured work directory inside the share.
package connector

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"digital.vasic.smbconnector/pkg/client"
	"digital.vasic.smbconnector/pkg/config"
	"digital.vasic.smbconnector/pkg/logging"
)

type state int

const (
	stateNew state = iota
	stateOpen
	stateClosed
)

// Session owns one protocol client connection. It is entered once, used,
// and exited once. A Session is not safe for concurrent use.
type Session struct {
	settings     config.Settings
	client       client.Client
	logger       *zap.Logger
	staging      afero.Fs
	stagingDir   string
	lenientMkdir bool
	nativeMove   bool
	state        state
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStagingFs sets the filesystem holding staging files.
func WithStagingFs(fs afero.Fs) Option {
	return func(s *Session) {
		if fs != nil {
			s.staging = fs
		}
	}
}

// WithStagingDir sets the directory staging files are created in. The
// default is the OS temp directory.
func WithStagingDir(dir string) Option {
	return func(s *Session) {
		s.stagingDir = dir
	}
}

// WithLenientMkdir makes CreateDirectory tolerate every per-component
// creation failure instead of only "already exists".
func WithLenientMkdir(lenient bool) Option {
	return func(s *Session) {
		s.lenientMkdir = lenient
	}
}

// WithNativeMove controls whether MoveFile uses the protocol's rename when
// the client supports one. Enabled by default.
func WithNativeMove(enabled bool) Option {
	return func(s *Session) {
		s.nativeMove = enabled
	}
}

// New creates an unentered session over c.
func New(settings config.Settings, c client.Client, opts ...Option) *Session {
	s := &Session{
		settings:     settings,
		client:       c,
		logger:       logging.Nop(),
		staging:      afero.NewOsFs(),
		lenientMkdir: settings.LenientMkdir,
		nativeMove:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the resolved connection settings.
func (s *Session) Settings() config.Settings {
	return s.settings
}

// IsOpen reports whether the session has been entered and not yet exited.
func (s *Session) IsOpen() bool {
	return s.state == stateOpen
}

// Enter connects the protocol client to the configured host and port.
// A failed Enter leaves the session unentered.
func (s *Session) Enter(ctx context.Context) error {
	switch s.state {
	case stateOpen:
		return ErrSessionAlreadyOpen
	case stateClosed:
		return ErrSessionClosed
	}

	addr := net.JoinHostPort(s.settings.Host, strconv.Itoa(s.settings.Port))
	s.logger.Debug("connecting",
		zap.String("protocol", s.client.GetProtocol()),
		zap.String("addr", addr),
		zap.String("share", s.settings.Share),
	)
	if err := s.client.Connect(ctx, s.settings.Host, s.settings.Port); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrConnectionFailed, addr, err)
	}
	s.state = stateOpen
	return nil
}

// Exit disconnects the protocol client. The session is closed afterwards
// even when disconnecting fails.
func (s *Session) Exit(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	s.state = stateClosed
	err := s.client.Disconnect(ctx)
	s.logger.Debug("disconnected", zap.String("protocol", s.client.GetProtocol()), zap.Error(err))
	return err
}

// With enters a new session, runs fn and exits the session whatever fn
// returns. The session is also exited when fn panics, before the panic
// propagates.
func With(ctx context.Context, settings config.Settings, c client.Client, fn func(*Session) error, opts ...Option) (err error) {
	s := New(settings, c, opts...)
	if err := s.Enter(ctx); err != nil {
		return err
	}
	defer func() {
		exitErr := s.Exit(ctx)
		if exitErr == nil {
			return
		}
		if err == nil {
			err = exitErr
			return
		}
		err = multierror.Append(err, exitErr)
	}()

	return fn(s)
}

func (s *Session) check() error {
	switch s.state {
	case stateOpen:
		return nil
	case stateClosed:
		return ErrSessionClosed
	}
	return ErrSessionNotOpen
}

func (s *Session) resolve(relPath string) string {
	return Resolve(s.settings.WorkDir, relPath)
}
