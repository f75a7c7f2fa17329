package storage

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("attachment", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["attachment"], 1)
	return form.File["attachment"][0]
}

func newFrozenStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"), zap.NewNop())
	require.NoError(t, err)
	frozen := time.UnixMilli(1700000000123)
	store.now = func() time.Time { return frozen }
	return store
}

func TestDiskStore_AcceptAndRelease(t *testing.T) {
	store := newFrozenStore(t)

	att, err := store.Accept(fileHeader(t, "receipt.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	assert.Equal(t, "receipt.pdf", att.FileName)
	assert.Equal(t, int64(8), att.SizeBytes)
	assert.Equal(t, "1700000000123-receipt.pdf", filepath.Base(att.Path))

	data, err := store.Read(att)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Release(att))
	_, err = os.Stat(att.Path)
	assert.True(t, os.IsNotExist(err))

	// second release is a no-op
	require.NoError(t, store.Release(att))
	require.NoError(t, store.Release(nil))
}

func TestDiskStore_StripsDirectories(t *testing.T) {
	store := newFrozenStore(t)

	att, err := store.Accept(fileHeader(t, "../../etc/passwd", []byte("x")))
	require.NoError(t, err)
	assert.Equal(t, store.dir, filepath.Dir(att.Path))
	assert.True(t, strings.HasSuffix(att.Path, "-passwd"))
}

func TestDiskStore_CollisionFallback(t *testing.T) {
	store := newFrozenStore(t)

	first, err := store.Accept(fileHeader(t, "photo.jpg", []byte("a")))
	require.NoError(t, err)
	second, err := store.Accept(fileHeader(t, "photo.jpg", []byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.True(t, strings.HasPrefix(filepath.Base(second.Path), "1700000000123-"))
	assert.True(t, strings.HasSuffix(second.Path, "-photo.jpg"))
}

func TestDiskStore_ConcurrentAcceptUniqueNames(t *testing.T) {
	store := newFrozenStore(t)
	const n = 128

	headers := make([]*multipart.FileHeader, n)
	for i := range headers {
		// half distinct names, half sharing one name
		name := fmt.Sprintf("file-%d.txt", i)
		if i%2 == 0 {
			name = "same.txt"
		}
		headers[i] = fileHeader(t, name, []byte(name))
	}

	var (
		mu    sync.Mutex
		paths = make(map[string]struct{}, n)
		g     errgroup.Group
	)
	for _, h := range headers {
		h := h
		g.Go(func() error {
			att, err := store.Accept(h)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if _, dup := paths[att.Path]; dup {
				return fmt.Errorf("duplicate path %s", att.Path)
			}
			paths[att.Path] = struct{}{}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, paths, n)

	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}
