package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/domain"
	"task-manager/pkg/utils"
)

type TaskService struct {
	tasks domain.TaskRepository
	users domain.UserRepository
	log   *zap.Logger
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, l *zap.Logger) *TaskService {
	if l == nil {
		l = zap.NewNop()
	}
	return &TaskService{tasks: tasks, users: users, log: l}
}

// TaskListItem 列表项附带已完成清单项数
type TaskListItem struct {
	domain.Task
	CompletedTodoCount int `json:"completedTodoCount"`
}

type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     time.Time
	AssignedTo  []string
	Attachments []string
	Checklist   []domain.ChecklistItem
}

// UpdateTaskInput nil 字段表示未提供
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	AssignedTo  *[]string
	Attachments *[]string
	Checklist   *[]domain.ChecklistItem
}

func (s *TaskService) List(ctx context.Context, caller *domain.User, status string) ([]TaskListItem, StatusSummary, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, StatusSummary{}, domain.BadRequest("invalid status filter")
	}
	scope := domain.VisibilityFilter(caller)
	f := scope
	f.Status = status

	tasks, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, StatusSummary{}, err
	}
	items := make([]TaskListItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, TaskListItem{Task: t, CompletedTodoCount: t.CompletedCount()})
	}

	all, err := s.tasks.Count(ctx, scope)
	if err != nil {
		return nil, StatusSummary{}, err
	}
	byStatus, err := s.tasks.CountByStatus(ctx, scope)
	if err != nil {
		return nil, StatusSummary{}, err
	}
	return items, StatusSummary{
		All:             all,
		PendingTasks:    byStatus[domain.StatusPending],
		InProgressTasks: byStatus[domain.StatusInProgress],
		CompletedTasks:  byStatus[domain.StatusCompleted],
	}, nil
}

// Get 不做指派人过滤：任何已登录用户都能按 id 读取
func (s *TaskService) Get(ctx context.Context, _ *domain.User, id string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, caller *domain.User, in CreateTaskInput) (*domain.Task, error) {
	if !domain.IsAdmin(caller) {
		return nil, domain.Forbidden("Access denied, admin only.")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.BadRequest("title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.BadRequest("invalid priority")
	}
	assignees, err := s.checkAssignees(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}

	checklist := in.Checklist
	if checklist == nil {
		checklist = []domain.ChecklistItem{}
	}
	t := &domain.Task{
		ID:          utils.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    priority,
		Status:      domain.StatusPending,
		DueDate:     in.DueDate,
		CreatedBy:   caller.ID,
		AssignedTo:  refs(assignees),
		Progress:    domain.ChecklistProgress(checklist),
		Checklist:   checklist,
		Attachments: in.Attachments,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	tasksCreated.Inc()
	s.log.Info("task created", zap.String("task_id", t.ID), zap.String("by", caller.ID), zap.Int("assignees", len(assignees)))
	return s.tasks.FindByID(ctx, t.ID)
}

// Update 通用字段更新；只要求登录，不校验指派关系
func (s *TaskService) Update(ctx context.Context, _ *domain.User, id string, in UpdateTaskInput) (*domain.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		if !domain.ValidPriority(*in.Priority) {
			return nil, domain.BadRequest("invalid priority")
		}
		t.Priority = *in.Priority
	}
	if in.DueDate != nil && !in.DueDate.IsZero() {
		t.DueDate = *in.DueDate
	}
	if in.Attachments != nil {
		t.Attachments = *in.Attachments
	}
	if in.Checklist != nil {
		// 直接编辑清单只重算进度，状态走 /status 或 /todo
		t.Checklist = *in.Checklist
		if t.Checklist == nil {
			t.Checklist = []domain.ChecklistItem{}
		}
		t.Progress = domain.ChecklistProgress(t.Checklist)
	}
	if in.AssignedTo != nil {
		assignees, err := s.checkAssignees(ctx, *in.AssignedTo)
		if err != nil {
			return nil, err
		}
		t.AssignedTo = refs(assignees)
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) Delete(ctx context.Context, caller *domain.User, id string) error {
	if !domain.IsAdmin(caller) {
		return domain.Forbidden("Access denied, admin only.")
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("task deleted", zap.String("task_id", id), zap.String("by", caller.ID))
	return nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, caller *domain.User, id, status string) (*domain.Task, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.BadRequest("invalid status")
	}
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyTask(caller, t) {
		return nil, domain.Forbidden("Not authorized.")
	}
	t.ApplyStatus(status)
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	taskStatusChanges.WithLabelValues(t.Status).Inc()
	return t, nil
}

func (s *TaskService) UpdateChecklist(ctx context.Context, caller *domain.User, id string, items []domain.ChecklistItem) (*domain.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModifyTask(caller, t) {
		return nil, domain.Forbidden("Not authorized to update the checklist.")
	}
	prev := t.Status
	t.ReplaceChecklist(items)
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	if t.Status != prev {
		taskStatusChanges.WithLabelValues(t.Status).Inc()
	}
	return s.tasks.FindByID(ctx, id)
}

// checkAssignees 去重后要求非空且全部是已存在的用户
func (s *TaskService) checkAssignees(ctx context.Context, ids []string) ([]string, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return nil, domain.BadRequest("assignedTo must be a non-empty array of user IDs")
	}
	n, err := s.users.CountByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	if n != int64(len(uniq)) {
		return nil, domain.BadRequest("assignedTo contains unknown user IDs")
	}
	return uniq, nil
}

func refs(ids []string) []domain.UserRef {
	out := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.UserRef{ID: id})
	}
	return out
}
