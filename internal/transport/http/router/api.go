package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-manager/internal/core/auth"
	"task-manager/internal/core/server"
	mdw "task-manager/internal/transport/http/middleware"
)

// Deps 两个 engine 共用的依赖
type Deps struct {
	Logger         *zap.Logger
	JWT            *auth.JWTer
	Users          mdw.CallerResolver
	Modules        *Registry
	CORSOrigins    []string
	UploadDir      string // 非空时以 /uploads 提供本地上传文件
	RequestTimeout time.Duration
}

func (d Deps) timeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return d.RequestTimeout
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Logger, d.CORSOrigins)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(d.timeout()),
		mdw.Metrics(),
		mdw.AccessLog(d.Logger),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	api := r.Group("/api")
	d.Modules.MountAPI(api, mdw.AuthJWT(d.JWT, d.Users))

	return r
}
