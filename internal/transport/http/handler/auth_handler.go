package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"task-manager/internal/domain"
	"task-manager/internal/service"
	httpez "task-manager/internal/transport/http/ez"
	mdw "task-manager/internal/transport/http/middleware"
)

// /api/auth 每 IP 限速：防撞库
const (
	authRPS   rate.Limit = 5
	authBurst            = 30
)

type AuthHandler struct {
	Auth  *service.AuthService
	Media *service.MediaService
}

func NewAuthHandler(a *service.AuthService, m *service.MediaService) *AuthHandler {
	return &AuthHandler{Auth: a, Media: m}
}

func (h *AuthHandler) Priority() int { return 10 }

type registerIn struct {
	Name             string `json:"name"             binding:"required,max=100"`
	Email            string `json:"email"            binding:"required,email"`
	Password         string `json:"password"         binding:"required,max=72"`
	ProfileImageURL  string `json:"profileImageUrl"`
	AdminInviteToken string `json:"adminInviteToken"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileIn struct {
	Name     *string `json:"name"     binding:"omitempty,max=100"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,max=72"`
}

// sessionOut 用户公开字段 + token，平铺在一层
type sessionOut struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profileImageUrl"`
	Token           string `json:"token"`
}

type imageOut struct {
	ImageURL string `json:"imageUrl"`
}

func toSessionOut(s *service.Session) sessionOut {
	return sessionOut{
		ID:              s.User.ID,
		Name:            s.User.Name,
		Email:           s.User.Email,
		Role:            s.User.Role,
		ProfileImageURL: s.User.ProfileImageURL,
		Token:           s.Token,
	}
}

func (h *AuthHandler) MountAPI(api *gin.RouterGroup, guard gin.HandlerFunc) {
	pub := httpez.New(api).Group("/auth", mdw.RateLimitPerIP(authRPS, authBurst))

	httpez.Register(pub, httpez.Action[registerIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (sessionOut, error) {
			s, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
				Name:             in.Name,
				Email:            in.Email,
				Password:         in.Password,
				ProfileImageURL:  in.ProfileImageURL,
				AdminInviteToken: in.AdminInviteToken,
			})
			if err != nil {
				return sessionOut{}, err
			}
			return toSessionOut(s), nil
		},
	})

	httpez.Register(pub, httpez.Action[loginIn, sessionOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (sessionOut, error) {
			s, err := h.Auth.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return sessionOut{}, err
			}
			return toSessionOut(s), nil
		},
	})

	if h.Media != nil {
		httpez.POSTFILE(pub, "/upload-image", "image", func(c *gin.Context, fh *multipart.FileHeader) (any, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, domain.BadRequest("cannot read uploaded file")
			}
			defer f.Close()
			url, err := h.Media.UploadImage(c.Request.Context(), fh.Filename, f, fh.Size)
			if err != nil {
				return nil, err
			}
			return imageOut{ImageURL: url}, nil
		})
	}

	authed := pub.Group("", guard)

	httpez.Register(authed, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.Auth.Profile(c.Request.Context(), mdw.Caller(c).ID)
		},
	})

	httpez.Register(authed, httpez.Action[profileIn, sessionOut]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *profileIn) (sessionOut, error) {
			s, err := h.Auth.UpdateProfile(c.Request.Context(), mdw.Caller(c).ID, service.UpdateProfileInput{
				Name:     in.Name,
				Email:    in.Email,
				Password: in.Password,
			})
			if err != nil {
				return sessionOut{}, err
			}
			return toSessionOut(s), nil
		},
	})
}
