package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/core/cache"
	"task-manager/internal/domain"
	"task-manager/pkg/utils"
)

const msgBadCredentials = "Invalid email or password."

type TokenIssuer interface {
	Issue(uid string) (string, error)
}

type AuthOptions struct {
	AdminInviteToken string
	Cache            *cache.Cache // 可选；nil 时每次查库
	CacheTTL         time.Duration
	Logger           *zap.Logger
}

type AuthService struct {
	users       domain.UserRepository
	tokens      TokenIssuer
	inviteToken string
	cache       *cache.Cache
	cacheTTL    time.Duration
	log         *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users domain.UserRepository, tokens TokenIssuer, opts AuthOptions) *AuthService {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		inviteToken: opts.AdminInviteToken,
		cache:       opts.Cache,
		cacheTTL:    ttl,
		log:         l,
	}
}

type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Session 用户公开信息 + 新签发的令牌
type Session struct {
	User  *domain.User
	Token string
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AuthService) roleFor(invite string) string {
	if invite == "" || s.inviteToken == "" {
		return domain.RoleMember
	}
	if subtle.ConstantTimeCompare([]byte(invite), []byte(s.inviteToken)) == 1 {
		return domain.RoleAdmin
	}
	return domain.RoleMember
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.Conflict("User already exists.")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:              utils.NewID(),
		Name:            strings.TrimSpace(in.Name),
		Email:           email,
		PasswordHash:    hashed,
		Role:            s.roleFor(in.AdminInviteToken),
		ProfileImageURL: in.ProfileImageURL,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	usersRegistered.WithLabelValues(u.Role).Inc()
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", u.Role))
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		// 未注册的邮箱同样跑一次 bcrypt，响应时间不泄露账号是否存在
		utils.CheckPassword(password, s.dummy())
		loginFailures.Inc()
		return nil, domain.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		loginFailures.Inc()
		return nil, domain.Unauthorized(msgBadCredentials)
	}
	return s.session(u)
}

func (s *AuthService) Profile(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.FindByID(ctx, uid)
}

func (s *AuthService) UpdateProfile(ctx context.Context, uid string, in UpdateProfileInput) (*Session, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		u.Email = normalizeEmail(*in.Email)
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Del(ctx, userCacheKey(uid))
	}
	return s.session(u)
}

// Resolve 鉴权中间件用：按 id 取调用者
func (s *AuthService) Resolve(ctx context.Context, uid string) (*domain.User, error) {
	if s.cache == nil {
		return s.users.FindByID(ctx, uid)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, userCacheKey(uid), s.cacheTTL, func(ctx context.Context) (*domain.User, error) {
		return s.users.FindByID(ctx, uid)
	})
}

func (s *AuthService) session(u *domain.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: tok}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword(utils.NewID())
	})
	return s.dummyHash
}

func userCacheKey(uid string) string { return "user:" + uid }
