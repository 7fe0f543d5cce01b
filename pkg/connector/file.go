package connector

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/afero"
)

// ReadFile downloads a file into a staging file and calls fn with a reader
// positioned at its start. The reader is only valid inside fn; the staging
// file is removed when fn returns.
func (s *Session) ReadFile(ctx context.Context, relPath string, fn func(r io.Reader) error) error {
	if err := s.check(); err != nil {
		return err
	}
	p := s.resolve(relPath)
	return s.stage(func(f afero.File) error {
		if _, err := s.client.Retrieve(ctx, s.settings.Share, p, f); err != nil {
			return remoteError("retrieve", p, err)
		}
		if err := rewind(f); err != nil {
			return err
		}
		return fn(f)
	})
}

// ReadBytes returns the whole content of a file.
func (s *Session) ReadBytes(ctx context.Context, relPath string) ([]byte, error) {
	var buf bytes.Buffer
	err := s.ReadFile(ctx, relPath, func(r io.Reader) error {
		_, err := buf.ReadFrom(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile stores src at relPath and reports whether the server stored any
// bytes. The count is not compared with the length of src, so a truncated
// upload of at least one byte still reports true.
func (s *Session) WriteFile(ctx context.Context, relPath string, src io.Reader) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	p := s.resolve(relPath)
	n, err := s.client.Store(ctx, s.settings.Share, p, src)
	if err != nil {
		return false, remoteError("store", p, err)
	}
	return n != 0, nil
}

// DeleteFiles deletes every file matching pattern, and matching directories
// when deleteFolders is set. Wildcards are allowed in the last component only.
func (s *Session) DeleteFiles(ctx context.Context, pattern string, deleteFolders bool) error {
	if err := s.check(); err != nil {
		return err
	}
	p := s.resolve(pattern)
	return remoteError("delete", p, s.client.DeleteFiles(ctx, s.settings.Share, p, deleteFolders))
}
