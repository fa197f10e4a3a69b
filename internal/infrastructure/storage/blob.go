// Package storage guarda las imágenes subidas en un bucket de gocloud.dev (disco local, memoria o nube).
package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
)

var _ ports.ObjectStore = (*BlobStore)(nil)

// BlobStore implementa ports.ObjectStore sobre *blob.Bucket.
type BlobStore struct {
	bucket       *blob.Bucket
	publicPrefix string
	localDir     string
}

// Open abre el bucket de UPLOAD_BUCKET_URL. Las rutas file:// relativas se resuelven contra el
// directorio de trabajo y el directorio se crea si no existe.
func Open(ctx context.Context, bucketURL, publicPrefix string) (*BlobStore, error) {
	resolved, dir, err := resolveFileURL(bucketURL)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de uploads: %w", err)
		}
	}
	b, err := blob.OpenBucket(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("abrir bucket %s: %w", bucketURL, err)
	}
	s := NewBlobStore(b, publicPrefix)
	s.localDir = dir
	return s, nil
}

// NewBlobStore envuelve un bucket ya abierto (memblob en tests).
func NewBlobStore(b *blob.Bucket, publicPrefix string) *BlobStore {
	return &BlobStore{bucket: b, publicPrefix: strings.TrimRight(publicPrefix, "/")}
}

// resolveFileURL convierte file://./uploads en file:///abs/uploads. Devuelve el directorio local
// para file:// y "" para el resto de esquemas.
func resolveFileURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("UPLOAD_BUCKET_URL inválida: %w", err)
	}
	if u.Scheme != "file" {
		return raw, "", nil
	}
	p := u.Host + u.Path
	if u.Host != "" && !strings.HasPrefix(u.Host, ".") {
		return "", "", fmt.Errorf("UPLOAD_BUCKET_URL: host %q no soportado en file://", u.Host)
	}
	abs, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return "", "", err
	}
	out := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: u.RawQuery}
	return out.String(), abs, nil
}

// Put escribe el objeto y devuelve la URL pública prefijo/key.
func (s *BlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	opts := &blob.WriterOptions{ContentType: contentType, CacheControl: "public, max-age=31536000"}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", fmt.Errorf("escribir %s: %w", key, err)
	}
	return s.publicPrefix + "/" + key, nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return fmt.Errorf("borrar %s: %w", key, err)
	}
	return nil
}

// LocalDir directorio servido como estático cuando el bucket es file://; "" en otro caso.
func (s *BlobStore) LocalDir() string { return s.localDir }

func (s *BlobStore) Close() error { return s.bucket.Close() }
