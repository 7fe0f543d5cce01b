package connector

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"

	"digital.vasic.smbconnector/pkg/client"
)

type call struct {
	Op    string
	Share string
	Path  string
}

// fakeClient is an in-memory protocol client that records every call.
type fakeClient struct {
	connected bool
	files     map[string][]byte
	dirs      map[string]bool
	calls     []call

	connectErr    error
	disconnectErr error
	retrieveErr   error
	storeErr      error
	deleteErr     error
	mkdirErr      map[string]error
	listing       []*client.RawEntry
	storedCount   *int64
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		files:    make(map[string][]byte),
		dirs:     make(map[string]bool),
		mkdirErr: make(map[string]error),
	}
}

func (f *fakeClient) record(op, share, p string) {
	f.calls = append(f.calls, call{Op: op, Share: share, Path: p})
}

func (f *fakeClient) callsFor(op string) []string {
	var paths []string
	for _, c := range f.calls {
		if c.Op == op {
			paths = append(paths, c.Path)
		}
	}
	return paths
}

func (f *fakeClient) Connect(ctx context.Context, host string, port int) error {
	f.record("connect", "", host)
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Disconnect(ctx context.Context) error {
	f.record("disconnect", "", "")
	f.connected = false
	return f.disconnectErr
}

func (f *fakeClient) IsConnected() bool {
	return f.connected
}

func (f *fakeClient) List(ctx context.Context, share, p string) ([]*client.RawEntry, error) {
	f.record("list", share, p)
	if f.listing != nil {
		return f.listing, nil
	}
	dir := strings.TrimSuffix(p, "/")
	if dir != "" && !f.dirs[dir] {
		return nil, client.WithKind(client.ErrNotFound, errors.New("STATUS_OBJECT_PATH_NOT_FOUND"))
	}

	var entries []*client.RawEntry
	for name, data := range f.files {
		if path.Dir(name) == dir {
			entries = append(entries, &client.RawEntry{Name: path.Base(name), Size: int64(len(data))})
		}
	}
	for name := range f.dirs {
		if path.Dir(name) == dir {
			entries = append(entries, &client.RawEntry{Name: path.Base(name), IsDir: true})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (f *fakeClient) Retrieve(ctx context.Context, share, p string, w io.Writer) (int64, error) {
	f.record("retrieve", share, p)
	if f.retrieveErr != nil {
		return 0, f.retrieveErr
	}
	data, ok := f.files[p]
	if !ok {
		return 0, client.WithKind(client.ErrNotFound, errors.New("STATUS_OBJECT_NAME_NOT_FOUND"))
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (f *fakeClient) Store(ctx context.Context, share, p string, r io.Reader) (int64, error) {
	f.record("store", share, p)
	if f.storeErr != nil {
		return 0, f.storeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.files[p] = data
	if f.storedCount != nil {
		return *f.storedCount, nil
	}
	return int64(len(data)), nil
}

func (f *fakeClient) DeleteFiles(ctx context.Context, share, pattern string, deleteFolders bool) error {
	f.record("delete", share, pattern)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	dir, base := client.SplitPattern(pattern)
	deleted := 0
	for name := range f.files {
		if path.Dir(name) != dir {
			continue
		}
		if ok, _ := path.Match(base, path.Base(name)); ok {
			delete(f.files, name)
			deleted++
		}
	}
	if deleted == 0 {
		return client.ErrNoMatch
	}
	return nil
}

func (f *fakeClient) CreateDirectory(ctx context.Context, share, p string) error {
	f.record("mkdir", share, p)
	if err := f.mkdirErr[p]; err != nil {
		return err
	}
	if f.dirs[p] {
		return client.WithKind(client.ErrAlreadyExists, errors.New("STATUS_OBJECT_NAME_COLLISION"))
	}
	f.dirs[p] = true
	return nil
}

func (f *fakeClient) DeleteDirectory(ctx context.Context, share, p string) error {
	f.record("rmdir", share, p)
	if !f.dirs[p] {
		return client.WithKind(client.ErrNotFound, errors.New("STATUS_OBJECT_NAME_NOT_FOUND"))
	}
	delete(f.dirs, p)
	return nil
}

func (f *fakeClient) GetProtocol() string {
	return "fake"
}

// renamingClient adds the native rename capability.
type renamingClient struct {
	*fakeClient
	renameErr error
}

func (r *renamingClient) Rename(ctx context.Context, share, oldPath, newPath string) error {
	r.record("rename", share, oldPath+" -> "+newPath)
	if r.renameErr != nil {
		return r.renameErr
	}
	data, ok := r.files[oldPath]
	if !ok {
		return client.WithKind(client.ErrNotFound, errors.New("STATUS_OBJECT_NAME_NOT_FOUND"))
	}
	delete(r.files, oldPath)
	r.files[newPath] = data
	return nil
}
