package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"task-manager/internal/core/server"
	"task-manager/internal/domain"
	mdw "task-manager/internal/transport/http/middleware"
)

// NewAdminEngine 运维端：健康检查、Prometheus 指标、管理员用户控制台
func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Logger, d.CORSOrigins)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.Timeout(d.timeout()),
		mdw.AccessLog(d.Logger),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1", mdw.AuthJWT(d.JWT, d.Users), mdw.RequireRole(domain.RoleAdmin))
	d.Modules.MountAdmin(admin)

	return r
}
