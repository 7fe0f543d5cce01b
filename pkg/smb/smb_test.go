package smb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.smbconnector/pkg/client"
)

// Verify SMB Client implements the client interfaces.
var (
	_ client.Client  = (*Client)(nil)
	_ client.Renamer = (*Client)(nil)
)

func TestNewSMBClient(t *testing.T) {
	config := &Config{
		Username: "user",
		Password: "pass",
		Domain:   "WORKGROUP",
	}
	c := NewSMBClient(config)
	require.NotNil(t, c)
	assert.Equal(t, config, c.config)
	assert.Nil(t, c.conn)
	assert.Nil(t, c.session)
	assert.Empty(t, c.shares)
}

func TestSMBClient_GetProtocol(t *testing.T) {
	c := NewSMBClient(&Config{})
	assert.Equal(t, "smb", c.GetProtocol())
}

func TestSMBClient_GetConfig(t *testing.T) {
	config := &Config{
		Username: "admin",
		Password: "secret",
		Domain:   "EXAMPLE",
	}
	c := NewSMBClient(config)
	assert.Equal(t, config, c.GetConfig())
}

func TestSMBClient_IsConnected_NotConnected(t *testing.T) {
	c := NewSMBClient(&Config{})
	assert.False(t, c.IsConnected())
}

func TestSMBClient_NotConnected(t *testing.T) {
	c := NewSMBClient(&Config{})
	ctx := context.Background()

	files, err := c.List(ctx, "share", "")
	assert.ErrorIs(t, err, client.ErrNotConnected)
	assert.Nil(t, files)

	n, err := c.Retrieve(ctx, "share", "test.txt", &bytes.Buffer{})
	assert.ErrorIs(t, err, client.ErrNotConnected)
	assert.Zero(t, n)

	n, err = c.Store(ctx, "share", "test.txt", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, client.ErrNotConnected)
	assert.Zero(t, n)

	assert.ErrorIs(t, c.DeleteFiles(ctx, "share", "*.txt", false), client.ErrNotConnected)
	assert.ErrorIs(t, c.CreateDirectory(ctx, "share", "newdir"), client.ErrNotConnected)
	assert.ErrorIs(t, c.DeleteDirectory(ctx, "share", "olddir"), client.ErrNotConnected)
	assert.ErrorIs(t, c.Rename(ctx, "share", "src.txt", "dst.txt"), client.ErrNotConnected)
}

func TestSMBClient_Disconnect_AllNil(t *testing.T) {
	c := NewSMBClient(&Config{})
	err := c.Disconnect(context.Background())
	assert.NoError(t, err)
}

func TestSMBClient_Connect_InvalidServer(t *testing.T) {
	c := NewSMBClient(&Config{
		Username:    "user",
		Password:    "pass",
		DialTimeout: time.Second,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately
	err := c.Connect(ctx, "192.0.2.1", 445) // RFC 5737 test address
	assert.Error(t, err)
	assert.False(t, c.IsConnected())
}

func TestToSMBPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/", want: ""},
		{in: "/work/file.txt", want: `work\file.txt`},
		{in: "work//in/", want: `work\in`},
		{in: `work\mixed/path`, want: `work\mixed\path`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, toSMBPath(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		code uint32
		kind error
	}{
		{name: "collision", code: statusObjectNameCollision, kind: client.ErrAlreadyExists},
		{name: "name not found", code: statusObjectNameNotFound, kind: client.ErrNotFound},
		{name: "path not found", code: statusObjectPathNotFound, kind: client.ErrNotFound},
		{name: "no such file", code: statusNoSuchFile, kind: client.ErrNotFound},
		{name: "bad share", code: statusBadNetworkName, kind: client.ErrNotFound},
		{name: "access denied", code: statusAccessDenied, kind: client.ErrPermission},
		{name: "not a directory", code: statusNotADirectory, kind: client.ErrInvalidTarget},
		{name: "is a directory", code: statusFileIsADirectory, kind: client.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := &os.PathError{Op: "mkdir", Path: `a\b`, Err: &smb2.ResponseError{Code: tt.code}}
			err := classify(cause)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestClassify_Unmapped(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := fmt.Errorf("connection reset")
	assert.Same(t, plain, classify(plain))

	cause := &os.PathError{Op: "remove", Path: "dir", Err: &smb2.ResponseError{Code: 0xC0000101}}
	err := classify(cause)
	assert.False(t, errors.Is(err, client.ErrAlreadyExists))
	assert.False(t, errors.Is(err, client.ErrNotFound))
}

func TestNewRawEntry(t *testing.T) {
	tempDir := t.TempDir()
	path := tempDir + "/ro.bin"
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0444))
	info, err := os.Stat(path)
	require.NoError(t, err)

	e := newRawEntry(info)
	assert.Equal(t, "ro.bin", e.Name)
	assert.False(t, e.IsDir)
	assert.True(t, e.ReadOnly)
	assert.Equal(t, int64(3), e.Size)
}
