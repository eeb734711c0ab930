package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "travel/1700000000000-abc-lisbon.jpg"

	// Upload
	data := []byte("hello fs")
	params := portfolio.UploadParams{ObjectKey: key, MimeType: "image/jpeg", FileName: "lisbon.jpg"}
	if err := backend.UploadWithParams(ctx, bytes.NewReader(data), params); err != nil {
		t.Fatalf("upload: %v", err)
	}

	// GetObjectMeta
	meta, err := backend.GetObjectMeta(ctx, key)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}
	if meta.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", meta.ContentType)
	}

	// Download
	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != string(data) {
		t.Fatalf("download mismatch: %q", string(got))
	}

	// No temporary files left behind
	entries, err := os.ReadDir(filepath.Join(tmp, "travel"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file, got %d", len(entries))
	}

	// Delete
	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, key)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	// Empty namespace directory is cleaned up
	if _, err := os.Stat(filepath.Join(tmp, "travel")); !os.IsNotExist(err) {
		t.Fatalf("expected directory removed, stat err=%v", err)
	}
}

func TestFSBackend_NotFound(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	if err := backend.Delete(ctx, "artwork/missing.png"); !errors.Is(err, portfolio.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
	if _, err := backend.Download(ctx, "artwork/missing.png"); !errors.Is(err, portfolio.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
	if _, err := backend.GetObjectMeta(ctx, "artwork/missing.png"); !errors.Is(err, portfolio.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
	if _, err := backend.GetDownloadURL(ctx, "artwork/a.png", "a.png"); !errors.Is(err, portfolio.ErrNotSignable) {
		t.Fatalf("expected ErrNotSignable, got %v", err)
	}
}

func TestFSBackend_KeysStayInBaseDir(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "blobs")
	backend, err := New(Config{BaseDir: base})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	err = backend.UploadWithParams(context.Background(), bytes.NewReader([]byte("x")), portfolio.UploadParams{ObjectKey: "../escape.txt"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "escape.txt")); !os.IsNotExist(err) {
		t.Fatalf("object escaped base dir")
	}
	if _, err := os.Stat(filepath.Join(base, "escape.txt")); err != nil {
		t.Fatalf("expected object inside base dir: %v", err)
	}

	if _, err := backend.path(""); err == nil {
		t.Fatalf("expected empty key to be rejected")
	}
}
