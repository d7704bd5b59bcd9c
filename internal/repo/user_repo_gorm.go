package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/domain"
	"task-manager/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return &domain.Error{Kind: domain.ErrConflict, Msg: "User already exists.", Err: err}
		}
		return fmt.Errorf("create user: %w", err)
	}
	*u = toUser(m)
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := toUser(m)
	return &u, nil
}

// CountByIDs 统计存在的用户数（去重后）
func (r *UserRepo) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	var ms []user.UserModel
	q := r.db.WithContext(ctx).Model(&user.UserModel{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, toUser(m))
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	m := toUserModel(u)
	res := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", u.ID).
		Select("name", "email", "password_hash", "profile_image_url", "updated_at").
		Updates(&m)
	if res.Error != nil {
		if isDupKey(res.Error) {
			return &domain.Error{Kind: domain.ErrConflict, Msg: "Email already in use.", Err: res.Error}
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("User not found.")
	}
	return nil
}

func toUserModel(u *domain.User) user.UserModel {
	return user.UserModel{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toUser(m user.UserModel) domain.User {
	return domain.User{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Role:            m.Role,
		ProfileImageURL: m.ProfileImageURL,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
