package task

import (
	"time"

	"task-manager/internal/feature/user"
)

// ChecklistItem 以 JSON 数组存在 tasks.todo_checklist
type ChecklistItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type TaskModel struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Title       string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	Priority    string          `gorm:"size:16;not null;default:Medium;index"`
	Status      string          `gorm:"size:16;not null;default:Pending;index"`
	DueDate     time.Time       `gorm:"index"`
	CreatedBy   string          `gorm:"type:varchar(36);not null;index"`
	Progress    int             `gorm:"not null;default:0"`
	Checklist   []ChecklistItem `gorm:"column:todo_checklist;type:text;serializer:json"`
	Attachments []string        `gorm:"type:text;serializer:json"`

	// 有序指派人；position 保留请求中的顺序
	Assignees []AssigneeModel `gorm:"foreignKey:TaskID"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (TaskModel) TableName() string { return "tasks" }

type AssigneeModel struct {
	TaskID   string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"primaryKey;type:varchar(36);index"`
	Position int    `gorm:"not null;default:0"`

	User user.UserModel `gorm:"foreignKey:UserID;references:ID"`
}

func (AssigneeModel) TableName() string { return "task_assignees" }
