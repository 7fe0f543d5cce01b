// Package smb implements the protocol client for SMB2/3 file shares.
package smb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hirochachacha/go-smb2"

	"digital.vasic.smbconnector/pkg/client"
)

// NTSTATUS codes that map onto client error kinds.
const (
	statusNoSuchFile          uint32 = 0xC000000F
	statusAccessDenied        uint32 = 0xC0000022
	statusObjectNameNotFound  uint32 = 0xC0000034
	statusObjectNameCollision uint32 = 0xC0000035
	statusObjectPathNotFound  uint32 = 0xC000003A
	statusBadNetworkName      uint32 = 0xC00000CC
	statusNotADirectory       uint32 = 0xC0000103
	statusFileIsADirectory    uint32 = 0xC00000BA
)

// Config contains SMB authentication configuration. Host and port are
// supplied at connect time.
type Config struct {
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	Domain      string        `json:"domain"`
	DialTimeout time.Duration `json:"dial_timeout"`
}

// Client implements client.Client for the SMB protocol.
type Client struct {
	conn    net.Conn
	session *smb2.Session
	shares  map[string]*smb2.Share
	config  *Config
}

// NewSMBClient creates a new SMB client.
func NewSMBClient(config *Config) *Client {
	return &Client{
		config: config,
		shares: make(map[string]*smb2.Share),
	}
}

// Connect establishes the TCP connection and the SMB session.
func (c *Client) Connect(ctx context.Context, host string, port int) error {
	if c.IsConnected() {
		return fmt.Errorf("already connected")
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{Timeout: c.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMB server: %w", err)
	}

	d := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     c.config.Username,
			Password: c.config.Password,
			Domain:   c.config.Domain,
		},
	}

	session, err := d.DialContext(ctx, conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMB session: %w", err)
	}

	c.conn = conn
	c.session = session
	return nil
}

// Disconnect unmounts every share, logs off and closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	var result *multierror.Error

	for name, share := range c.shares {
		if err := share.Umount(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to unmount share %s: %w", name, err))
		}
		delete(c.shares, name)
	}

	if c.session != nil {
		if err := c.session.Logoff(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to logoff session: %w", err))
		}
		c.session = nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}

	return result.ErrorOrNil()
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.session != nil && c.conn != nil
}

// mount returns the share bound to ctx, mounting it on first use.
func (c *Client) mount(ctx context.Context, name string) (*smb2.Share, error) {
	if !c.IsConnected() {
		return nil, client.ErrNotConnected
	}
	if name == "" {
		return nil, fmt.Errorf("share name is required")
	}
	share, ok := c.shares[name]
	if !ok {
		var err error
		share, err = c.session.Mount(name)
		if err != nil {
			return nil, fmt.Errorf("failed to mount SMB share %s: %w", name, classify(err))
		}
		c.shares[name] = share
	}
	return share.WithContext(ctx), nil
}

// List lists the entries of a directory.
func (c *Client) List(ctx context.Context, share, path string) ([]*client.RawEntry, error) {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return nil, err
	}
	p := toSMBPath(path)
	entries, err := fs.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("failed to list SMB directory %s: %w", p, classify(err))
	}

	files := make([]*client.RawEntry, 0, len(entries))
	for _, entry := range entries {
		files = append(files, newRawEntry(entry))
	}
	return files, nil
}

// Retrieve copies the contents of a remote file into w.
func (c *Client) Retrieve(ctx context.Context, share, path string, w io.Writer) (int64, error) {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return 0, err
	}
	p := toSMBPath(path)
	file, err := fs.Open(p)
	if err != nil {
		return 0, fmt.Errorf("failed to open SMB file %s: %w", p, classify(err))
	}
	defer file.Close()

	n, err := io.Copy(w, file)
	if err != nil {
		return n, fmt.Errorf("failed to read SMB file %s: %w", p, classify(err))
	}
	return n, nil
}

// Store creates or truncates a remote file and fills it from r.
func (c *Client) Store(ctx context.Context, share, path string, r io.Reader) (int64, error) {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return 0, err
	}
	p := toSMBPath(path)
	file, err := fs.Create(p)
	if err != nil {
		return 0, fmt.Errorf("failed to create SMB file %s: %w", p, classify(err))
	}

	n, err := io.Copy(file, r)
	if err != nil {
		file.Close()
		return n, fmt.Errorf("failed to write SMB file %s: %w", p, classify(err))
	}
	if err := file.Close(); err != nil {
		return n, fmt.Errorf("failed to close SMB file %s: %w", p, classify(err))
	}
	return n, nil
}

// DeleteFiles removes the entries matching pattern. Only the last path
// component may hold wildcards.
func (c *Client) DeleteFiles(ctx context.Context, share, pattern string, deleteFolders bool) error {
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
		return fmt.Errorf("failed to delete SMB files %s: %w", pattern, client.ErrNoMatch)
	}

	fs, err := c.mount(ctx, share)
	if err != nil {
		return err
	}
	for _, entry := range matched {
		p := toSMBPath(dir + "/" + entry.Name)
		if err := fs.Remove(p); err != nil {
			return fmt.Errorf("failed to delete SMB file %s: %w", p, classify(err))
		}
	}
	return nil
}

// CreateDirectory creates a single directory.
func (c *Client) CreateDirectory(ctx context.Context, share, path string) error {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return err
	}
	p := toSMBPath(path)
	if err := fs.Mkdir(p, 0755); err != nil {
		return fmt.Errorf("failed to create SMB directory %s: %w", p, classify(err))
	}
	return nil
}

// DeleteDirectory deletes an empty directory.
func (c *Client) DeleteDirectory(ctx context.Context, share, path string) error {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return err
	}
	p := toSMBPath(path)
	stat, err := fs.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to delete SMB directory %s: %w", p, classify(err))
	}
	if !stat.IsDir() {
		return fmt.Errorf("failed to delete SMB directory %s: %w", p, client.ErrInvalidTarget)
	}
	if err := fs.Remove(p); err != nil {
		return fmt.Errorf("failed to delete SMB directory %s: %w", p, classify(err))
	}
	return nil
}

// Rename moves a file within a share.
func (c *Client) Rename(ctx context.Context, share, oldPath, newPath string) error {
	fs, err := c.mount(ctx, share)
	if err != nil {
		return err
	}
	oldp, newp := toSMBPath(oldPath), toSMBPath(newPath)
	if err := fs.Rename(oldp, newp); err != nil {
		return fmt.Errorf("failed to rename SMB file %s to %s: %w", oldp, newp, classify(err))
	}
	return nil
}

// GetProtocol returns the protocol name.
func (c *Client) GetProtocol() string {
	return "smb"
}

// GetConfig returns the SMB configuration.
func (c *Client) GetConfig() interface{} {
	return c.config
}

func newRawEntry(info os.FileInfo) *client.RawEntry {
	return &client.RawEntry{
		Name:     info.Name(),
		IsDir:    info.IsDir(),
		ReadOnly: info.Mode().Perm()&0200 == 0,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}
}

// toSMBPath converts a slash-separated path to SMB form: backslash
// separators, no leading, trailing or repeated separators.
func toSMBPath(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return strings.Join(parts, `\`)
}

// classify tags an SMB error with the matching client error kind.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var re *smb2.ResponseError
	if !errors.As(err, &re) {
		return err
	}
	switch re.Code {
	case statusObjectNameCollision:
		return client.WithKind(client.ErrAlreadyExists, err)
	case statusNoSuchFile, statusObjectNameNotFound, statusObjectPathNotFound, statusBadNetworkName:
		return client.WithKind(client.ErrNotFound, err)
	case statusAccessDenied:
		return client.WithKind(client.ErrPermission, err)
	case statusNotADirectory, statusFileIsADirectory:
		return client.WithKind(client.ErrInvalidTarget, err)
	}
	return err
}
