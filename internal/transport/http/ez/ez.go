package ez

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"task-manager/internal/domain"
	mdw "task-manager/internal/transport/http/middleware"
	resp "task-manager/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Group 在当前分组下开子分组
func (e EZ) Group(path string, hs ...gin.HandlerFunc) EZ { return EZ{g: e.g.Group(path, hs...)} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/auth/login"、"/tasks/:id/status"
	Binder  Binder   // 绑定方式
	Roles   []string // 限定角色（可选，需挂在鉴权分组下）
	Status  int      // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// Register 在当前 EZ 下注册动作接口
func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 角色
		if len(a.Roles) > 0 {
			caller := mdw.Caller(c)
			if caller == nil {
				c.JSON(resp.CodeUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
				return
			}
			if !domain.HasRole(caller, a.Roles...) {
				c.JSON(resp.CodeForbidden, resp.Error(resp.CodeForbidden, "Access denied, admin only."))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// POSTFILE 处理 multipart/form-data 单文件上传
func POSTFILE(e EZ, path string, fieldName string, h func(c *gin.Context, file *multipart.FileHeader) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		fh, err := c.FormFile(fieldName)
		if err != nil {
			c.JSON(resp.CodeBadRequest, resp.Error(resp.CodeBadRequest, "No file uploaded"))
			return
		}
		data, err := h(c, fh)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
	})
}

// Fail 按错误种类写响应；500 记录到 gin 错误列表供日志取用
func Fail(c *gin.Context, err error) {
	code, body := resp.FromError(err)
	if code == resp.CodeServerError {
		_ = c.Error(err)
	}
	c.JSON(code, body)
}
