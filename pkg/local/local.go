// Package local implements the protocol client for a directory on the local
// filesystem, such as a share that is already mounted by the OS. Each share is
// a sub-directory of the base path.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"digital.vasic.smbconnector/pkg/client"
)

// Config contains local filesystem configuration.
type Config struct {
	BasePath string `json:"base_path"`
}

// Client implements client.Client for the local filesystem.
type Client struct {
	config    *Config
	basePath  string
	connected bool
}

// NewLocalClient creates a new local filesystem client.
func NewLocalClient(config *Config) *Client {
	return &Client{
		config:    config,
		basePath:  config.BasePath,
		connected: false,
	}
}

// Connect validates the base path. Host and port are ignored.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	info, err := os.Stat(c.basePath)
	if err != nil {
		return fmt.Errorf("failed to access base path %s: %w", c.basePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base path %s is not a directory", c.basePath)
	}
	c.connected = true
	return nil
}

// Disconnect closes the connection (no-op for local filesystem).
func (c *Client) Disconnect(ctx context.Context) error {
	c.connected = false
	return nil
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.connected
}

// resolvePath resolves a share-relative path to a path within the base
// directory. Cleaning against "/" keeps ".." components inside the share;
// names that merely contain ".." are left alone.
func (c *Client) resolvePath(share, path string) string {
	cleanPath := filepath.Clean("/" + filepath.FromSlash(path))
	return filepath.Join(c.basePath, share, cleanPath)
}

// List lists the entries of a directory.
func (c *Client) List(ctx context.Context, share, path string) ([]*client.RawEntry, error) {
	if !c.IsConnected() {
		return nil, client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, path)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list local directory %s: %w", fullPath, err)
	}

	var files []*client.RawEntry
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, &client.RawEntry{
			Name:     entry.Name(),
			IsDir:    entry.IsDir(),
			ReadOnly: info.Mode().Perm()&0200 == 0,
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	return files, nil
}

// Retrieve copies the contents of a file into w.
func (c *Client) Retrieve(ctx context.Context, share, path string, w io.Writer) (int64, error) {
	if !c.IsConnected() {
		return 0, client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, path)
	file, err := os.Open(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open local file %s: %w", fullPath, err)
	}
	defer file.Close()

	n, err := io.Copy(w, file)
	if err != nil {
		return n, fmt.Errorf("failed to read local file %s: %w", fullPath, err)
	}
	return n, nil
}

// Store creates or truncates a file and fills it from r. The parent
// directory must exist.
func (c *Client) Store(ctx context.Context, share, path string, r io.Reader) (int64, error) {
	if !c.IsConnected() {
		return 0, client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, path)
	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file %s: %w", fullPath, err)
	}

	n, err := io.Copy(file, r)
	if err != nil {
		file.Close()
		return n, fmt.Errorf("failed to write local file %s: %w", fullPath, err)
	}
	if err := file.Close(); err != nil {
		return n, fmt.Errorf("failed to close local file %s: %w", fullPath, err)
	}
	return n, nil
}

// DeleteFiles removes the entries matching pattern.
func (c *Client) DeleteFiles(ctx context.Context, share, pattern string, deleteFolders bool) error {
	if !c.IsConnected() {
		return client.ErrNotConnected
	}
	dir, base := client.SplitPattern(pattern)
	entries, err := c.List(ctx, share, dir)
	if err != nil {
		return err
	}
	matched, err := client.MatchEntries(entries, base, deleteFolders)
	if err != nil {
		return fmt.Errorf("invalid delete pattern %s: %w", pattern, err)
	}
	if len(matched) == 0 {
		return fmt.Errorf("failed to delete local files %s: %w", pattern, client.ErrNoMatch)
	}

	for _, entry := range matched {
		fullPath := c.resolvePath(share, dir+"/"+entry.Name)
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to delete local file %s: %w", fullPath, err)
		}
	}
	return nil
}

// CreateDirectory creates a single directory.
func (c *Client) CreateDirectory(ctx context.Context, share, path string) error {
	if !c.IsConnected() {
		return client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, path)
	err := os.Mkdir(fullPath, 0755)
	if err != nil {
		return fmt.Errorf("failed to create local directory %s: %w", fullPath, err)
	}
	return nil
}

// DeleteDirectory deletes an empty directory.
func (c *Client) DeleteDirectory(ctx context.Context, share, path string) error {
	if !c.IsConnected() {
		return client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return fmt.Errorf("failed to delete local directory %s: %w", fullPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("failed to delete local directory %s: %w", fullPath, client.ErrInvalidTarget)
	}
	err = os.Remove(fullPath)
	if err != nil {
		return fmt.Errorf("failed to delete local directory %s: %w", fullPath, err)
	}
	return nil
}

// Rename moves a file within a share.
func (c *Client) Rename(ctx context.Context, share, oldPath, newPath string) error {
	if !c.IsConnected() {
		return client.ErrNotConnected
	}
	oldFullPath := c.resolvePath(share, oldPath)
	newFullPath := c.resolvePath(share, newPath)
	err := os.Rename(oldFullPath, newFullPath)
	if err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", oldFullPath, newFullPath, err)
	}
	return nil
}

// GetProtocol returns the protocol name.
func (c *Client) GetProtocol() string {
	return "local"
}

// GetConfig returns the local configuration.
func (c *Client) GetConfig() interface{} {
	return c.config
}
