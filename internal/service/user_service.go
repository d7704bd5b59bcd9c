package service

import (
	"context"

	"task-manager/internal/domain"
)

type UserService struct {
	users domain.UserRepository
	tasks domain.TaskRepository
}

func NewUserService(users domain.UserRepository, tasks domain.TaskRepository) *UserService {
	return &UserService{users: users, tasks: tasks}
}

type MemberWithCounts struct {
	domain.User
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// ListMembers 所有 member 及其各状态任务数
func (s *UserService) ListMembers(ctx context.Context) ([]MemberWithCounts, error) {
	members, err := s.users.ListByRole(ctx, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	out := make([]MemberWithCounts, 0, len(members))
	for _, m := range members {
		byStatus, err := s.tasks.CountByStatus(ctx, domain.TaskFilter{AssigneeID: m.ID})
		if err != nil {
			return nil, err
		}
		out = append(out, MemberWithCounts{
			User:            m,
			PendingTasks:    byStatus[domain.StatusPending],
			InProgressTasks: byStatus[domain.StatusInProgress],
			CompletedTasks:  byStatus[domain.StatusCompleted],
		})
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
