package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/domain"
	"task-manager/internal/service"
	httpez "task-manager/internal/transport/http/ez"
)

// UserHandler 用户目录；同时挂在 /api 和管理端 /admin/v1
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(u *service.UserService) *UserHandler { return &UserHandler{Users: u} }

func (h *UserHandler) Priority() int { return 30 }

func (h *UserHandler) listMembers() httpez.Action[struct{}, []service.MemberWithCounts] {
	return httpez.Action[struct{}, []service.MemberWithCounts]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]service.MemberWithCounts, error) {
			return h.Users.ListMembers(c.Request.Context())
		},
	}
}

func (h *UserHandler) MountAPI(api *gin.RouterGroup, guard gin.HandlerFunc) {
	g := httpez.New(api).Group("/users", guard)
	httpez.Register(g, h.listMembers())
	httpez.Register(g, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.Users.Get(c.Request.Context(), c.Param("id"))
		},
	})
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	httpez.Register(httpez.New(admin).Group("/users"), h.listMembers())
}
