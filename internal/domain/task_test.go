package domain

import (
	"errors"
	"testing"
)

func items(flags ...bool) []ChecklistItem {
	out := make([]ChecklistItem, 0, len(flags))
	for i, f := range flags {
		out = append(out, ChecklistItem{Text: string(rune('a' + i)), Completed: f})
	}
	return out
}

func TestChecklistProgress(t *testing.T) {
	tests := []struct {
		name  string
		items []ChecklistItem
		want  int
	}{
		{"empty", nil, 0},
		{"none done", items(false, false), 0},
		{"half", items(true, false), 50},
		{"one of three", items(true, false, false), 33},
		{"two of three", items(true, true, false), 67},
		{"all done", items(true, true, true), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChecklistProgress(tt.items); got != tt.want {
				t.Errorf("ChecklistProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTask_ReplaceChecklist(t *testing.T) {
	tests := []struct {
		name         string
		prevStatus   string
		items        []ChecklistItem
		wantProgress int
		wantStatus   string
	}{
		{"partial is pending", StatusInProgress, items(true, false), 50, StatusPending},
		{"all done is completed", StatusPending, items(true, true), 100, StatusCompleted},
		{"nothing done is in progress", StatusPending, items(false, false), 0, StatusInProgress},
		{"empty keeps status", StatusCompleted, nil, 0, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: tt.prevStatus, Progress: 42}
			task.ReplaceChecklist(tt.items)
			if task.Progress != tt.wantProgress {
				t.Errorf("progress = %d, want %d", task.Progress, tt.wantProgress)
			}
			if task.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", task.Status, tt.wantStatus)
			}
			if task.Checklist == nil {
				t.Error("checklist should never be nil")
			}
		})
	}
}

func TestTask_ReplaceChecklist_CompletedIffFull(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for done := 0; done <= total; done++ {
			flags := make([]bool, total)
			for i := 0; i < done; i++ {
				flags[i] = true
			}
			task := &Task{Status: StatusPending}
			task.ReplaceChecklist(items(flags...))
			full := task.Progress == 100
			if full != (task.Status == StatusCompleted) {
				t.Fatalf("%d/%d: progress=%d status=%q", done, total, task.Progress, task.Status)
			}
		}
	}
}

func TestTask_ApplyStatus(t *testing.T) {
	task := &Task{Status: StatusPending, Progress: 33, Checklist: items(true, false, false)}
	task.ApplyStatus(StatusInProgress)
	if task.Status != StatusInProgress || task.Progress != 33 {
		t.Fatalf("non-completed status should not touch progress, got %q/%d", task.Status, task.Progress)
	}

	task.ApplyStatus(StatusCompleted)
	if task.Progress != 100 {
		t.Errorf("progress = %d, want 100", task.Progress)
	}
	for i, it := range task.Checklist {
		if !it.Completed {
			t.Errorf("item %d not completed", i)
		}
	}
}

func TestCanModifyTask(t *testing.T) {
	task := &Task{AssignedTo: []UserRef{{ID: "u1"}, {ID: "u2"}}}
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"assignee", &User{ID: "u2", Role: RoleMember}, true},
		{"stranger", &User{ID: "u3", Role: RoleMember}, false},
		{"admin", &User{ID: "u9", Role: RoleAdmin}, true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModifyTask(tt.user, task); got != tt.want {
				t.Errorf("CanModifyTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibilityFilter(t *testing.T) {
	if f := VisibilityFilter(&User{ID: "a", Role: RoleAdmin}); f.AssigneeID != "" {
		t.Errorf("admin filter should be global, got %+v", f)
	}
	if f := VisibilityFilter(&User{ID: "m", Role: RoleMember}); f.AssigneeID != "m" {
		t.Errorf("member filter should scope to self, got %+v", f)
	}
}

func TestError_Kinds(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: ErrConflict, Msg: "User already exists.", Err: cause}
	if !errors.Is(err, ErrConflict) {
		t.Error("expected ErrConflict kind")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
	if errors.Is(NotFound("x"), ErrForbidden) {
		t.Error("unexpected kind match")
	}
	if err.Error() != "User already exists." {
		t.Errorf("Error() = %q", err.Error())
	}
}
