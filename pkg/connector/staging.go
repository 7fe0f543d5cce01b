package connector

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const stagingPattern = "smbconnector-*"

// stage runs fn with a fresh staging file that is closed and removed when
// fn returns, whatever the outcome.
func (s *Session) stage(fn func(f afero.File) error) error {
	f, err := afero.TempFile(s.staging, s.stagingDir, stagingPattern)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	name := f.Name()
	defer func() {
		f.Close()
		if err := s.staging.Remove(name); err != nil {
			s.logger.Warn("failed to remove staging file", zap.String("path", name), zap.Error(err))
		}
	}()

	return fn(f)
}

// rewind moves the staging file back to its start.
func rewind(f afero.File) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind staging file: %w", err)
	}
	return nil
}
