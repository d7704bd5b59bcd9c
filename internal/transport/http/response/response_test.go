package response

import (
	"errors"
	"fmt"
	"testing"

	"task-manager/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantErr  string
	}{
		{"bad request", domain.BadRequest("title is required"), 400, "title is required", ""},
		{"unauthorized", domain.Unauthorized("Invalid email or password."), 401, "Invalid email or password.", ""},
		{"forbidden", domain.Forbidden("Not authorized."), 403, "Not authorized.", ""},
		{"not found", domain.NotFound("Task not found."), 404, "Task not found.", ""},
		{"conflict", domain.Conflict("User already exists."), 409, "User already exists.", ""},
		{"wrapped kind", fmt.Errorf("lookup: %w", domain.ErrNotFound), 404, "lookup: not found", ""},
		{"unknown", errors.New("dial tcp: refused"), 500, "Server error", "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := FromError(tt.err)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if body.Message != tt.wantMsg || body.Error != tt.wantErr {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestError_DefaultMessage(t *testing.T) {
	if got := Error(CodeTooManyRequests, ""); got.Message != "Too many requests" {
		t.Errorf("default message = %q", got.Message)
	}
	if got := Error(CodeForbidden, "Access denied, admin only."); got.Message != "Access denied, admin only." {
		t.Errorf("custom message = %q", got.Message)
	}
}
