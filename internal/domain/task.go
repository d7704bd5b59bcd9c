package domain

import (
	"context"
	"math"
	"time"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

var (
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
	Statuses   = []string{StatusPending, StatusInProgress, StatusCompleted}
)

func ValidPriority(p string) bool { return contains(Priorities, p) }
func ValidStatus(s string) bool   { return contains(Statuses, s) }

type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UserRef 任务上展示的用户摘要
type UserRef struct {
	ID              string `json:"_id"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type Task struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	Status      string          `json:"status"`
	DueDate     time.Time       `json:"dueDate"`
	CreatedBy   string          `json:"createdBy"`
	AssignedTo  []UserRef       `json:"assignedTo"`
	Progress    int             `json:"progress"`
	Checklist   []ChecklistItem `json:"todoCheckList"`
	Attachments []string        `json:"attachments"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (t *Task) AssigneeIDs() []string {
	ids := make([]string, 0, len(t.AssignedTo))
	for _, a := range t.AssignedTo {
		ids = append(ids, a.ID)
	}
	return ids
}

func (t *Task) IsAssignee(uid string) bool {
	for _, a := range t.AssignedTo {
		if a.ID == uid {
			return true
		}
	}
	return false
}

func (t *Task) CompletedCount() int {
	n := 0
	for _, it := range t.Checklist {
		if it.Completed {
			n++
		}
	}
	return n
}

// ChecklistProgress round(100*completed/total)，空清单为 0
func ChecklistProgress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(items))))
}

// ReplaceChecklist 整体替换清单并重算进度与状态。
// 100% → Completed；0% → In Progress；其余 → Pending（沿用既有客户端约定）。
// 空清单只把进度置 0，状态保持不变。
func (t *Task) ReplaceChecklist(items []ChecklistItem) {
	if items == nil {
		items = []ChecklistItem{}
	}
	t.Checklist = items
	t.Progress = ChecklistProgress(items)
	if len(items) == 0 {
		return
	}
	switch {
	case t.Progress == 100:
		t.Status = StatusCompleted
	case t.Progress == 0:
		t.Status = StatusInProgress
	default:
		t.Status = StatusPending
	}
}

// ApplyStatus 设置状态；Completed 会勾选全部清单项并把进度置 100
func (t *Task) ApplyStatus(status string) {
	t.Status = status
	if status != StatusCompleted {
		return
	}
	for i := range t.Checklist {
		t.Checklist[i].Completed = true
	}
	t.Progress = 100
}

// TaskFilter 列表/计数的筛选条件，零值表示不过滤
type TaskFilter struct {
	Status     string
	AssigneeID string
	OverdueAt  time.Time // 非零时：due_date < OverdueAt 且未完成
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, f TaskFilter) ([]Task, error)
	Count(ctx context.Context, f TaskFilter) (int64, error)
	CountByStatus(ctx context.Context, f TaskFilter) (map[string]int64, error)
	CountByPriority(ctx context.Context, f TaskFilter) (map[string]int64, error)
	Recent(ctx context.Context, f TaskFilter, limit int) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
