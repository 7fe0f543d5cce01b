// Package ftp implements the protocol client for FTP servers. A share maps to
// a top-level directory below the configured base path.
package ftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"path"
	"strconv"
	"time"

	goftp "github.com/jlaffaye/ftp"

	"digital.vasic.smbconnector/pkg/client"
)

// Config contains FTP connection configuration. Host and port are supplied
// at connect time.
type Config struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Path     string        `json:"path"`
	Timeout  time.Duration `json:"timeout"`
}

// Client implements client.Client for the FTP protocol.
type Client struct {
	config    *Config
	client    *goftp.ServerConn
	connected bool
}

// NewFTPClient creates a new FTP client.
func NewFTPClient(config *Config) *Client {
	return &Client{
		config:    config,
		connected: false,
	}
}

// Connect establishes the FTP connection and logs in.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	timeout := c.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ftpClient, err := goftp.Dial(addr, goftp.DialWithContext(ctx), goftp.DialWithTimeout(timeout))
	if err != nil {
		return fmt.Errorf("failed to connect to FTP server: %w", err)
	}

	err = ftpClient.Login(c.config.Username, c.config.Password)
	if err != nil {
		ftpClient.Quit()
		return fmt.Errorf("failed to login to FTP server: %w", classify(err))
	}

	c.client = ftpClient
	c.connected = true
	return nil
}

// Disconnect closes the FTP connection.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.client != nil {
		err := c.client.Quit()
		c.client = nil
		c.connected = false
		return err
	}
	c.connected = false
	return nil
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.connected && c.client != nil
}

// resolvePath resolves a share-relative path below the FTP base directory.
func (c *Client) resolvePath(share, p string) string {
	return path.Join("/", c.config.Path, share, p)
}

// List lists the entries of a directory.
func (c *Client) List(ctx context.Context, share, p string) ([]*client.RawEntry, error) {
	if !c.IsConnected() {
		return nil, client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, p)

	entries, err := c.client.List(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list FTP directory %s: %w", fullPath, classify(err))
	}

	files := make([]*client.RawEntry, 0, len(entries))
	for _, entry := range entries {
		files = append(files, newRawEntry(entry))
	}
	return files, nil
}

// Retrieve copies the contents of a remote file into w.
func (c *Client) Retrieve(ctx context.Context, share, p string, w io.Writer) (int64, error) {
	if !c.IsConnected() {
		return 0, client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, p)
	resp, err := c.client.Retr(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve FTP file %s: %w", fullPath, classify(err))
	}
	defer resp.Close()

	n, err := io.Copy(w, resp)
	if err != nil {
		return n, fmt.Errorf("failed to read FTP file %s: %w", fullPath, err)
	}
	return n, nil
}

// Store uploads r to a remote file.
func (c *Client) Store(ctx context.Context, share, p string, r io.Reader) (int64, error) {
	if !c.IsConnected() {
		return 0, client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, p)

	cr := &countingReader{r: r}
	err := c.client.Stor(fullPath, cr)
	if err != nil {
		return cr.n, fmt.Errorf("failed to store FTP file %s: %w", fullPath, classify(err))
	}
	return cr.n, nil
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
		return fmt.Errorf("failed to delete FTP files %s: %w", pattern, client.ErrNoMatch)
	}

	for _, entry := range matched {
		fullPath := c.resolvePath(share, dir+"/"+entry.Name)
		if entry.IsDir {
			err = c.client.RemoveDir(fullPath)
		} else {
			err = c.client.Delete(fullPath)
		}
		if err != nil {
			return fmt.Errorf("failed to delete FTP file %s: %w", fullPath, classify(err))
		}
	}
	return nil
}

// CreateDirectory creates a single directory. FTP servers reply 550 both for
// existing and for forbidden directories, so the parent is listed to tell
// them apart.
func (c *Client) CreateDirectory(ctx context.Context, share, p string) error {
	if !c.IsConnected() {
		return client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, p)
	err := c.client.MakeDir(fullPath)
	if err == nil {
		return nil
	}
	if c.isFolder(fullPath) {
		return fmt.Errorf("failed to create FTP directory %s: %w", fullPath, client.WithKind(client.ErrAlreadyExists, err))
	}
	return fmt.Errorf("failed to create FTP directory %s: %w", fullPath, classify(err))
}

// DeleteDirectory deletes an empty directory.
func (c *Client) DeleteDirectory(ctx context.Context, share, p string) error {
	if !c.IsConnected() {
		return client.ErrNotConnected
	}
	fullPath := c.resolvePath(share, p)
	err := c.client.RemoveDir(fullPath)
	if err != nil {
		return fmt.Errorf("failed to delete FTP directory %s: %w", fullPath, classify(err))
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
	err := c.client.Rename(oldFullPath, newFullPath)
	if err != nil {
		return fmt.Errorf("failed to rename FTP file %s to %s: %w", oldFullPath, newFullPath, classify(err))
	}
	return nil
}

// GetProtocol returns the protocol name.
func (c *Client) GetProtocol() string {
	return "ftp"
}

// GetConfig returns the FTP configuration.
func (c *Client) GetConfig() interface{} {
	return c.config
}

func (c *Client) isFolder(fullPath string) bool {
	entries, err := c.client.List(path.Dir(fullPath))
	if err != nil {
		return false
	}
	name := path.Base(fullPath)
	for _, entry := range entries {
		if entry.Name == name && entry.Type == goftp.EntryTypeFolder {
			return true
		}
	}
	return false
}

func newRawEntry(entry *goftp.Entry) *client.RawEntry {
	size := int64(entry.Size)
	if entry.Size > uint64(1<<63-1) {
		size = 1<<63 - 1
	}
	return &client.RawEntry{
		Name:    entry.Name,
		IsDir:   entry.Type == goftp.EntryTypeFolder,
		Size:    size,
		ModTime: entry.Time,
	}
}

// classify tags an FTP reply error with the matching client error kind.
func classify(err error) error {
	var tpErr *textproto.Error
	if !errors.As(err, &tpErr) {
		return err
	}
	switch tpErr.Code {
	case goftp.StatusFileUnavailable:
		return client.WithKind(client.ErrNotFound, err)
	case goftp.StatusNotLoggedIn, goftp.StatusBadFileName:
		return client.WithKind(client.ErrPermission, err)
	}
	return err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
