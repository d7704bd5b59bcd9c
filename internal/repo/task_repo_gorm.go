package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/domain"
	"task-manager/internal/feature/task"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	m := toTaskModel(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignees").Create(&m).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if err := insertAssignees(tx, m.ID, t.AssigneeIDs()); err != nil {
			return err
		}
		t.CreatedAt, t.UpdatedAt = m.CreatedAt, m.UpdatedAt
		return nil
	})
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var m task.TaskModel
	err := r.db.WithContext(ctx).Preload("Assignees.User").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("Task not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	t := toTask(m)
	return &t, nil
}

func (r *TaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	var ms []task.TaskModel
	q := r.filtered(r.db.WithContext(ctx).Model(&task.TaskModel{}), f)
	if err := q.Preload("Assignees.User").Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return toTasks(ms), nil
}

func (r *TaskRepo) Count(ctx context.Context, f domain.TaskFilter) (int64, error) {
	var n int64
	if err := r.filtered(r.db.WithContext(ctx).Model(&task.TaskModel{}), f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepo) CountByStatus(ctx context.Context, f domain.TaskFilter) (map[string]int64, error) {
	return r.countBy(ctx, f, "status")
}

func (r *TaskRepo) CountByPriority(ctx context.Context, f domain.TaskFilter) (map[string]int64, error) {
	return r.countBy(ctx, f, "priority")
}

func (r *TaskRepo) countBy(ctx context.Context, f domain.TaskFilter, col string) (map[string]int64, error) {
	type row struct {
		Grp string
		Cnt int64
	}
	var rows []row
	err := r.filtered(r.db.WithContext(ctx).Model(&task.TaskModel{}), f).
		Select(col + " AS grp, COUNT(*) AS cnt").
		Group(col).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks by %s: %w", col, err)
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Grp] = rw.Cnt
	}
	return out, nil
}

// Recent 只取看板需要的列
func (r *TaskRepo) Recent(ctx context.Context, f domain.TaskFilter, limit int) ([]domain.Task, error) {
	var ms []task.TaskModel
	err := r.filtered(r.db.WithContext(ctx).Model(&task.TaskModel{}), f).
		Select("id", "title", "status", "priority", "due_date", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}
	return toTasks(ms), nil
}

// Update 整行覆盖可变字段并重写指派人，单事务内完成（后写覆盖先写）
func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	m := toTaskModel(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&task.TaskModel{}).Where("id = ?", t.ID).
			Select("Title", "Description", "Priority", "Status", "DueDate", "Progress", "Checklist", "Attachments", "UpdatedAt").
			Updates(&m)
		if res.Error != nil {
			return fmt.Errorf("update task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Task not found.")
		}
		if err := tx.Where("task_id = ?", t.ID).Delete(&task.AssigneeModel{}).Error; err != nil {
			return fmt.Errorf("clear assignees: %w", err)
		}
		return insertAssignees(tx, t.ID, t.AssigneeIDs())
	})
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&task.TaskModel{})
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("Task not found.")
		}
		if err := tx.Where("task_id = ?", id).Delete(&task.AssigneeModel{}).Error; err != nil {
			return fmt.Errorf("delete assignees: %w", err)
		}
		return nil
	})
}

func (r *TaskRepo) filtered(q *gorm.DB, f domain.TaskFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AssigneeID != "" {
		sub := r.db.Model(&task.AssigneeModel{}).Select("task_id").Where("user_id = ?", f.AssigneeID)
		q = q.Where("id IN (?)", sub)
	}
	if !f.OverdueAt.IsZero() {
		q = q.Where("due_date < ? AND status <> ?", f.OverdueAt.UTC(), domain.StatusCompleted)
	}
	return q
}

func insertAssignees(tx *gorm.DB, taskID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]task.AssigneeModel, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, uid := range userIDs {
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		rows = append(rows, task.AssigneeModel{TaskID: taskID, UserID: uid, Position: len(rows)})
	}
	if err := tx.Omit("User").Create(&rows).Error; err != nil {
		return fmt.Errorf("insert assignees: %w", err)
	}
	return nil
}

func toTaskModel(t *domain.Task) task.TaskModel {
	items := make([]task.ChecklistItem, 0, len(t.Checklist))
	for _, it := range t.Checklist {
		items = append(items, task.ChecklistItem{Text: it.Text, Completed: it.Completed})
	}
	attachments := t.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return task.TaskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate.UTC(),
		CreatedBy:   t.CreatedBy,
		Progress:    t.Progress,
		Checklist:   items,
		Attachments: attachments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTask(m task.TaskModel) domain.Task {
	items := make([]domain.ChecklistItem, 0, len(m.Checklist))
	for _, it := range m.Checklist {
		items = append(items, domain.ChecklistItem{Text: it.Text, Completed: it.Completed})
	}
	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	assignees := append([]task.AssigneeModel(nil), m.Assignees...)
	sort.SliceStable(assignees, func(i, j int) bool { return assignees[i].Position < assignees[j].Position })
	refs := make([]domain.UserRef, 0, len(assignees))
	for _, a := range assignees {
		refs = append(refs, domain.UserRef{
			ID:              a.UserID,
			Name:            a.User.Name,
			Email:           a.User.Email,
			ProfileImageURL: a.User.ProfileImageURL,
		})
	}

	return domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Priority:    m.Priority,
		Status:      m.Status,
		DueDate:     m.DueDate,
		CreatedBy:   m.CreatedBy,
		AssignedTo:  refs,
		Progress:    m.Progress,
		Checklist:   items,
		Attachments: attachments,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toTasks(ms []task.TaskModel) []domain.Task {
	out := make([]domain.Task, 0, len(ms))
	for _, m := range ms {
		out = append(out, toTask(m))
	}
	return out
}
