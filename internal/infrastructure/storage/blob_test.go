package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestPut_DevuelveURLPublicaYGuardaContenido(t *testing.T) {
	ctx := context.Background()
	b := memblob.OpenBucket(nil)
	s := NewBlobStore(b, "/uploads/")
	defer s.Close()

	url, err := s.Put(ctx, "products/2026/10/a.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/2026/10/a.png", url)

	got, err := b.ReadAll(ctx, "products/2026/10/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	attrs, err := b.Attributes(ctx, "products/2026/10/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", attrs.ContentType)

	require.NoError(t, s.Delete(ctx, "products/2026/10/a.png"))
	exists, err := b.Exists(ctx, "products/2026/10/a.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestResolveFileURL_RutaRelativa(t *testing.T) {
	resolved, dir, err := resolveFileURL("file://./uploads")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.Equal(t, "uploads", filepath.Base(dir))
	assert.True(t, strings.HasPrefix(resolved, "file:///"))
}

func TestResolveFileURL_OtrosEsquemasSinCambio(t *testing.T) {
	resolved, dir, err := resolveFileURL("mem://")
	require.NoError(t, err)
	assert.Equal(t, "mem://", resolved)
	assert.Empty(t, dir)
}

func TestOpen_DirectorioTemporal(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), "file://"+filepath.ToSlash(filepath.Join(dir, "imgs")), "/uploads")
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, filepath.Join(dir, "imgs"), s.LocalDir())
	_, err = s.Put(context.Background(), "images/x.jpg", "image/jpeg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "imgs", "images", "x.jpg"))
}
