package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"task-manager/internal/core/storage"
	"task-manager/internal/domain"
)

func TestUserService_ListMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.register(t, "root", true)
	ann := f.register(t, "ann", false)
	f.register(t, "bob", false)

	tk := f.createTask(t, admin, "a1", nil, ann)
	f.createTask(t, admin, "a2", nil, ann)
	if _, err := f.task.UpdateStatus(ctx, ann, tk.ID, domain.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	members, err := f.members.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2 (admins excluded)", len(members))
	}
	for _, m := range members {
		if m.Role != domain.RoleMember {
			t.Errorf("unexpected role %q", m.Role)
		}
		if m.ID == ann.ID && (m.PendingTasks != 1 || m.CompletedTasks != 1 || m.InProgressTasks != 0) {
			t.Errorf("ann counts = %+v", m)
		}
	}

	if _, err := f.members.Get(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMediaService_UploadImage(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "http://localhost:8000/uploads")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewMediaService(store, 16)
	ctx := context.Background()

	url, err := svc.UploadImage(ctx, "me.PNG", bytes.NewReader([]byte("png")), 3)
	if err != nil {
		t.Fatalf("UploadImage() error = %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8000/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}

	if _, err := svc.UploadImage(ctx, "doc.pdf", bytes.NewReader(nil), 0); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("pdf: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.UploadImage(ctx, "big.jpg", bytes.NewReader(make([]byte, 32)), 32); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("oversize: expected ErrBadRequest, got %v", err)
	}
}
