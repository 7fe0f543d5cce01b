package connector

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"digital.vasic.smbconnector/pkg/client"
)

// CopyFile copies a file by downloading it into a staging file and uploading
// that to the new path. A failed upload leaves the source untouched but may
// leave a partial destination behind.
func (s *Session) CopyFile(ctx context.Context, oldPath, newPath string) error {
	if err := s.check(); err != nil {
		return err
	}
	src, dst := s.resolve(oldPath), s.resolve(newPath)
	return s.stage(func(f afero.File) error {
		if _, err := s.client.Retrieve(ctx, s.settings.Share, src, f); err != nil {
			return remoteError("retrieve", src, err)
		}
		if err := rewind(f); err != nil {
			return err
		}
		if _, err := s.client.Store(ctx, s.settings.Share, dst, f); err != nil {
			return remoteError("store", dst, err)
		}
		return nil
	})
}

// MoveFile moves a file. When the client can rename natively and native
// moves are enabled, the rename is used and the protocol decides what
// happens to an existing destination: SMB rejects it with
// STATUS_OBJECT_NAME_COLLISION while local and FTP servers usually replace
// it. Otherwise the file is copied and the source deleted afterwards, which
// always overwrites the destination and is not atomic: a failure between the
// two steps leaves the file at both paths.
func (s *Session) MoveFile(ctx context.Context, oldPath, newPath string) error {
	if err := s.check(); err != nil {
		return err
	}
	if r, ok := s.client.(client.Renamer); ok && s.nativeMove {
		src, dst := s.resolve(oldPath), s.resolve(newPath)
		return remoteError("rename", src, r.Rename(ctx, s.settings.Share, src, dst))
	}

	if err := s.CopyFile(ctx, oldPath, newPath); err != nil {
		return err
	}
	s.logger.Debug("copied, deleting source", zap.String("from", oldPath), zap.String("to", newPath))
	return s.DeleteFiles(ctx, oldPath, false)
}
