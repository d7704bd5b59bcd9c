package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-manager/internal/domain"
	"task-manager/internal/service"
	httpez "task-manager/internal/transport/http/ez"
	mdw "task-manager/internal/transport/http/middleware"
	resp "task-manager/internal/transport/http/response"
)

type TaskHandler struct {
	Tasks   *service.TaskService
	Reports *service.ReportService
}

func NewTaskHandler(t *service.TaskService, r *service.ReportService) *TaskHandler {
	return &TaskHandler{Tasks: t, Reports: r}
}

func (h *TaskHandler) Priority() int { return 20 }

type listTasksIn struct {
	Status string `form:"status"`
}

type listTasksOut struct {
	Tasks         []service.TaskListItem `json:"tasks"`
	StatusSummary service.StatusSummary  `json:"statusSummary"`
}

type createTaskIn struct {
	Title         string                 `json:"title"         binding:"required,max=200"`
	Description   string                 `json:"description"`
	Priority      string                 `json:"priority"`
	DueDate       time.Time              `json:"dueDate"       binding:"required"`
	AssignedTo    []string               `json:"assignedTo"`
	Attachments   []string               `json:"attachments"`
	TodoCheckList []domain.ChecklistItem `json:"todoCheckList"`
}

type updateTaskIn struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	Priority      *string                 `json:"priority"`
	DueDate       *time.Time              `json:"dueDate"`
	AssignedTo    *[]string               `json:"assignedTo"`
	Attachments   *[]string               `json:"attachments"`
	TodoCheckList *[]domain.ChecklistItem `json:"todoCheckList"`
}

type statusIn struct {
	Status string `json:"status" binding:"required"`
}

type checklistIn struct {
	TodoCheckList []domain.ChecklistItem `json:"todoCheckList"`
}

type taskOut struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

func (h *TaskHandler) MountAPI(api *gin.RouterGroup, guard gin.HandlerFunc) {
	g := httpez.New(api).Group("/tasks", guard)

	// 静态路径先于 /:id
	httpez.Register(g, httpez.Action[struct{}, *service.Dashboard]{
		Method: http.MethodGet,
		Path:   "/dashboard-data",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Dashboard, error) {
			return h.Reports.GlobalDashboard(c.Request.Context())
		},
	})

	httpez.Register(g, httpez.Action[struct{}, *service.Dashboard]{
		Method: http.MethodGet,
		Path:   "/user-dashboard-data",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Dashboard, error) {
			return h.Reports.UserDashboard(c.Request.Context(), mdw.Caller(c).ID)
		},
	})

	httpez.Register(g, httpez.Action[listTasksIn, listTasksOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listTasksIn) (listTasksOut, error) {
			items, summary, err := h.Tasks.List(c.Request.Context(), mdw.Caller(c), in.Status)
			if err != nil {
				return listTasksOut{}, err
			}
			return listTasksOut{Tasks: items, StatusSummary: summary}, nil
		},
	})

	httpez.Register(g, httpez.Action[struct{}, *domain.Task]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Task, error) {
			return h.Tasks.Get(c.Request.Context(), mdw.Caller(c), c.Param("id"))
		},
	})

	httpez.Register(g, httpez.Action[createTaskIn, taskOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createTaskIn) (taskOut, error) {
			t, err := h.Tasks.Create(c.Request.Context(), mdw.Caller(c), service.CreateTaskInput{
				Title:       in.Title,
				Description: in.Description,
				Priority:    in.Priority,
				DueDate:     in.DueDate,
				AssignedTo:  in.AssignedTo,
				Attachments: in.Attachments,
				Checklist:   in.TodoCheckList,
			})
			if err != nil {
				return taskOut{}, err
			}
			return taskOut{Message: "Task created successfully", Task: t}, nil
		},
	})

	httpez.Register(g, httpez.Action[updateTaskIn, taskOut]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *updateTaskIn) (taskOut, error) {
			t, err := h.Tasks.Update(c.Request.Context(), mdw.Caller(c), c.Param("id"), service.UpdateTaskInput{
				Title:       in.Title,
				Description: in.Description,
				Priority:    in.Priority,
				DueDate:     in.DueDate,
				AssignedTo:  in.AssignedTo,
				Attachments: in.Attachments,
				Checklist:   in.TodoCheckList,
			})
			if err != nil {
				return taskOut{}, err
			}
			return taskOut{Message: "Task updated successfully.", Task: t}, nil
		},
	})

	httpez.Register(g, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			if err := h.Tasks.Delete(c.Request.Context(), mdw.Caller(c), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Task deleted successfully."}, nil
		},
	})

	httpez.Register(g, httpez.Action[statusIn, taskOut]{
		Method: http.MethodPut,
		Path:   "/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (taskOut, error) {
			t, err := h.Tasks.UpdateStatus(c.Request.Context(), mdw.Caller(c), c.Param("id"), in.Status)
			if err != nil {
				return taskOut{}, err
			}
			return taskOut{Message: "Task status updated", Task: t}, nil
		},
	})

	httpez.Register(g, httpez.Action[checklistIn, taskOut]{
		Method: http.MethodPut,
		Path:   "/:id/todo",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *checklistIn) (taskOut, error) {
			t, err := h.Tasks.UpdateChecklist(c.Request.Context(), mdw.Caller(c), c.Param("id"), in.TodoCheckList)
			if err != nil {
				return taskOut{}, err
			}
			return taskOut{Message: "Task checklist updated.", Task: t}, nil
		},
	})
}
