package utils

import "github.com/google/uuid"

// NewID 生成 36 位 uuid，用作用户/任务主键
func NewID() string { return uuid.NewString() }
