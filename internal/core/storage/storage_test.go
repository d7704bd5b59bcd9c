package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"task-manager/internal/core/config"
)

func TestLocal_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	st, err := New(context.Background(), config.Upload{Driver: "local", Dir: dir, PublicBaseURL: "http://localhost:8000/uploads/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	url, err := st.Put(context.Background(), "avatar.png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if url != "http://localhost:8000/uploads/avatar.png" {
		t.Errorf("url = %q", url)
	}
	b, err := os.ReadFile(filepath.Join(dir, "avatar.png"))
	if err != nil || string(b) != "png-bytes" {
		t.Errorf("file content = %q, %v", b, err)
	}
}

func TestLocal_PutStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocal(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	url, err := st.Put(context.Background(), "../../etc/passwd.png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if url != "/uploads/passwd.png" {
		t.Errorf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "passwd.png")); err != nil {
		t.Errorf("expected file inside upload dir: %v", err)
	}
}

func TestNew_Drivers(t *testing.T) {
	if _, err := New(context.Background(), config.Upload{Driver: "ftp"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := New(context.Background(), config.Upload{Driver: "s3"}); err == nil {
		t.Error("expected error when bucket is missing")
	}
}

func TestContentType(t *testing.T) {
	if got := contentType("a.png"); got != "image/png" {
		t.Errorf("contentType(png) = %q", got)
	}
	if got := contentType("a.unknownext"); got != "application/octet-stream" {
		t.Errorf("contentType(unknown) = %q", got)
	}
}
