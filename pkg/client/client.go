// Package client defines the remote protocol client interface used by the
// share connector, supporting multiple protocols (SMB, FTP, Local).
package client

import (
	"context"
	"io"
	"time"
)

// RawEntry represents a directory entry as reported by a protocol client.
type RawEntry struct {
	Name     string
	IsDir    bool
	ReadOnly bool
	Size     int64
	ModTime  time.Time
}

// Client defines the raw, path-addressed operations of a remote file share.
// Every path is relative to the named share. A Client owns exactly one
// connection and is not safe for concurrent use.
type Client interface {
	// Connection management
	Connect(ctx context.Context, host string, port int) error
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// Directory operations
	List(ctx context.Context, share, path string) ([]*RawEntry, error)
	CreateDirectory(ctx context.Context, share, path string) error
	DeleteDirectory(ctx context.Context, share, path string) error

	// File operations
	Retrieve(ctx context.Context, share, path string, w io.Writer) (int64, error)
	Store(ctx context.Context, share, path string, r io.Reader) (int64, error)
	DeleteFiles(ctx context.Context, share, pattern string, deleteFolders bool) error

	// Metadata
	GetProtocol() string
}

// Renamer is implemented by clients whose protocol exposes a native rename.
type Renamer interface {
	Rename(ctx context.Context, share, oldPath, newPath string) error
}

// StorageConfig represents the configuration for a share backend.
type StorageConfig struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Protocol  string                 `json:"protocol"`
	Enabled   bool                   `json:"enabled"`
	Settings  map[string]interface{} `json:"settings"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Factory creates protocol clients based on protocol.
type Factory interface {
	CreateClient(config *StorageConfig) (Client, error)
	SupportedProtocols() []string
}
