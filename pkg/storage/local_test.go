package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "bucket", "http://localhost:8080/", "signing-secret")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return s
}

func TestLocal_UploadDownloadDelete(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	if err := s.Upload(ctx, "1/abc/notes.txt", strings.NewReader("hello"), 5, "text/plain"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, info, err := s.Download(ctx, "1/abc/notes.txt")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" || info.Size != 5 {
		t.Errorf("unexpected content %q size %d", data, info.Size)
	}

	if err := s.Delete(ctx, "1/abc/notes.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Stat(ctx, "1/abc/notes.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound after delete, got %v", err)
	}
	// deleting twice is not an error
	if err := s.Delete(ctx, "1/abc/notes.txt"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestLocal_Rename(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	_ = s.Upload(ctx, "1/abc/a.txt", strings.NewReader("x"), 1, "")

	if err := s.Rename(ctx, "1/abc/a.txt", "1/abc/b.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := s.Stat(ctx, "1/abc/a.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("old key should be gone, got %v", err)
	}
	if _, err := s.Stat(ctx, "1/abc/b.txt"); err != nil {
		t.Errorf("new key missing: %v", err)
	}
	if err := s.Rename(ctx, "1/abc/missing.txt", "1/abc/c.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocal_RejectsTraversal(t *testing.T) {
	s := newTestLocal(t)
	err := s.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "")
	if err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

func TestLocal_PresignedURL(t *testing.T) {
	s := newTestLocal(t)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	raw, err := s.PresignedDownloadURL(context.Background(), "1/abc/a.txt", "a.txt", time.Minute)
	if err != nil {
		t.Fatalf("PresignedDownloadURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != LocalDownloadPath+"1/abc/a.txt" {
		t.Errorf("unexpected path %s", u.Path)
	}
	q := u.Query()
	if !s.VerifySignature("1/abc/a.txt", q.Get("expires"), q.Get("signature")) {
		t.Error("expected signature to verify")
	}
	if s.VerifySignature("1/abc/other.txt", q.Get("expires"), q.Get("signature")) {
		t.Error("signature must be bound to the key")
	}

	now = now.Add(2 * time.Minute)
	if s.VerifySignature("1/abc/a.txt", q.Get("expires"), q.Get("signature")) {
		t.Error("expired signature must not verify")
	}
}
