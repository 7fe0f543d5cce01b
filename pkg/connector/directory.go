package connector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Entry is a directory entry returned by List.
type Entry struct {
	Name     string
	IsDir    bool
	ReadOnly bool
	Size     int64
	ModTime  time.Time
}

// List returns the entries of a directory in the order the server reports
// them, without the "." and ".." entries.
func (s *Session) List(ctx context.Context, relPath string) ([]Entry, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	p := s.resolve(relPath)
	raw, err := s.client.List(ctx, s.settings.Share, p)
	if err != nil {
		return nil, remoteError("list", p, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		entries = append(entries, Entry{
			Name:     e.Name,
			IsDir:    e.IsDir,
			ReadOnly: e.ReadOnly,
			Size:     e.Size,
			ModTime:  e.ModTime,
		})
	}
	return entries, nil
}

// CreateDirectory creates a directory and every missing parent, including
// the components of the work directory. Components that already exist are
// skipped, so the call is idempotent. Other failures are returned unless the
// session is lenient.
func (s *Session) CreateDirectory(ctx context.Context, relPath string) error {
	if err := s.check(); err != nil {
		return err
	}
	for _, p := range prefixes(s.resolve(relPath)) {
		err := s.client.CreateDirectory(ctx, s.settings.Share, p)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrDirectoryAlreadyExists) || s.lenientMkdir {
			s.logger.Debug("directory not created", zap.String("path", p), zap.Error(err))
			continue
		}
		return remoteError("mkdir", p, err)
	}
	return nil
}

// DeleteDirectory deletes a directory. The server decides whether a
// non-empty directory may be removed.
func (s *Session) DeleteDirectory(ctx context.Context, relPath string) error {
	if err := s.check(); err != nil {
		return err
	}
	p := s.resolve(relPath)
	return remoteError("rmdir", p, s.client.DeleteDirectory(ctx, s.settings.Share, p))
}
