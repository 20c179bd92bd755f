package storage

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\cv.docx`: "cv.docx",
		"my notes (1).txt":    "my_notes_1.txt",
		"...":                 "file",
		"bài giảng.pdf":       "bài_giảng.pdf",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey(42, "my file.png")
	parts := strings.Split(key, "/")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %q", key)
	}
	if parts[0] != "42" || parts[2] != "my_file.png" || len(parts[1]) != 36 {
		t.Errorf("unexpected key %q", key)
	}
	if NewObjectKey(42, "a") == NewObjectKey(42, "a") {
		t.Error("keys must be unique")
	}
}

func TestRenameObjectKey(t *testing.T) {
	got := RenameObjectKey("42/uuid/old.png", "new name.png")
	if got != "42/uuid/new_name.png" {
		t.Errorf("got %q", got)
	}
}
