package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"task-manager/internal/core/auth"
	"task-manager/internal/domain"
	resp "task-manager/internal/transport/http/response"
)

const KeyCaller = "caller"

// CallerResolver 按 token 里的用户 id 取回用户记录
type CallerResolver interface {
	Resolve(ctx context.Context, uid string) (*domain.User, error)
}

// AuthJWT 校验 Bearer token 并把调用者放进上下文
func AuthJWT(j *auth.JWTer, users CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(resp.CodeUnauthorized, resp.Error(resp.CodeUnauthorized, "Not authorized, no token"))
			return
		}
		claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(resp.CodeUnauthorized, resp.Error(resp.CodeUnauthorized, "Not authorized, token failed"))
			return
		}
		u, err := users.Resolve(c.Request.Context(), claims.UID)
		if errors.Is(err, domain.ErrNotFound) {
			c.AbortWithStatusJSON(resp.CodeUnauthorized, resp.Error(resp.CodeUnauthorized, "Not authorized, user not found"))
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(resp.CodeServerError, resp.ServerError(err))
			return
		}
		c.Set(KeyCaller, u)
		c.Next()
	}
}

// RequireRole 必须在 AuthJWT 之后
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !domain.HasRole(Caller(c), roles...) {
			c.AbortWithStatusJSON(resp.CodeForbidden, resp.Error(resp.CodeForbidden, "Access denied, admin only."))
			return
		}
		c.Next()
	}
}

// Caller 当前请求的调用者；未鉴权时为 nil
func Caller(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyCaller)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
