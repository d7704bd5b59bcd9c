package user

import (
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	ID              string `gorm:"primaryKey;type:varchar(36)"`
	Name            string `gorm:"size:64;not null"`
	Email           string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash    string `gorm:"size:100;not null"`
	Role            string `gorm:"size:16;not null;default:member"`
	ProfileImageURL string `gorm:"size:512"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }
