package service

import (
	"context"
	"strings"
	"time"

	"task-manager/internal/domain"
)

const recentTaskLimit = 10

type Statistics struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	OverdueTasks    int64 `json:"overDueTasks"`
}

type Charts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

type RecentTask struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	DueDate   time.Time `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
}

type Dashboard struct {
	Statistics  Statistics   `json:"statistics"`
	Charts      Charts       `json:"charts"`
	RecentTasks []RecentTask `json:"recentTasks"`
}

// ReportService 只读聚合，每次调用都重新计算
type ReportService struct {
	tasks domain.TaskRepository
	now   func() time.Time
}

func NewReportService(tasks domain.TaskRepository) *ReportService {
	return &ReportService{tasks: tasks, now: time.Now}
}

func (s *ReportService) GlobalDashboard(ctx context.Context) (*Dashboard, error) {
	return s.Dashboard(ctx, domain.TaskFilter{})
}

func (s *ReportService) UserDashboard(ctx context.Context, uid string) (*Dashboard, error) {
	return s.Dashboard(ctx, domain.TaskFilter{AssigneeID: uid})
}

func (s *ReportService) Dashboard(ctx context.Context, scope domain.TaskFilter) (*Dashboard, error) {
	total, err := s.tasks.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	overdueScope := scope
	overdueScope.OverdueAt = s.now()
	overdue, err := s.tasks.Count(ctx, overdueScope)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.tasks.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.tasks.CountByPriority(ctx, scope)
	if err != nil {
		return nil, err
	}
	recent, err := s.tasks.Recent(ctx, scope, recentTaskLimit)
	if err != nil {
		return nil, err
	}

	// 状态键去掉空格："In Progress" → "InProgress"
	distribution := make(map[string]int64, len(domain.Statuses)+1)
	for _, st := range domain.Statuses {
		distribution[strings.ReplaceAll(st, " ", "")] = byStatus[st]
	}
	distribution["All"] = total

	priorities := make(map[string]int64, len(domain.Priorities))
	for _, p := range domain.Priorities {
		priorities[p] = byPriority[p]
	}

	rows := make([]RecentTask, 0, len(recent))
	for _, t := range recent {
		rows = append(rows, RecentTask{
			ID: t.ID, Title: t.Title, Status: t.Status, Priority: t.Priority,
			DueDate: t.DueDate, CreatedAt: t.CreatedAt,
		})
	}

	return &Dashboard{
		Statistics: Statistics{
			TotalTasks:      total,
			PendingTasks:    byStatus[domain.StatusPending],
			InProgressTasks: byStatus[domain.StatusInProgress],
			CompletedTasks:  byStatus[domain.StatusCompleted],
			OverdueTasks:    overdue,
		},
		Charts: Charts{
			TaskDistribution:   distribution,
			TaskPriorityLevels: priorities,
		},
		RecentTasks: rows,
	}, nil
}
