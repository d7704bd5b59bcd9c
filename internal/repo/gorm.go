package repo

import (
	"strings"

	"gorm.io/gorm"

	"task-manager/internal/feature/task"
	"task-manager/internal/feature/user"
)

// Migrate 建表 / 补列
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.UserModel{}, &task.TaskModel{}, &task.AssigneeModel{})
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey（需开启 TranslateError），按驱动报错文本判断
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
