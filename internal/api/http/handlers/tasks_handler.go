package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/service"
)

// TasksHandler manages the caller's task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// ListTasks GET /api/tasks.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	ownerID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListTasks(c.UserContext(), ownerID, parseTaskListQuery(c))
	if err != nil {
		return err
	}

	items := make([]dto.TaskResponse, 0, len(page.Tasks))
	for i := range page.Tasks {
		items = append(items, dto.NewTaskResponse(&page.Tasks[i]))
	}
	return c.JSON(dto.TaskListResponse{
		Data: items,
		Pagination: dto.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// GetTask GET /api/tasks/:id.
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	ownerID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	task, err := h.service.GetTask(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// CreateTask POST /api/tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	ownerID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	task, err := h.service.CreateTask(c.UserContext(), ownerID, title)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTaskResponse(task))
}

// UpdateTask PUT /api/tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	ownerID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	task, err := h.service.UpdateTask(c.UserContext(), ownerID, c.Params("id"), domain.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// DeleteTask DELETE /api/tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	ownerID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTask(c.UserContext(), ownerID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Task deleted successfully"})
}

func parseTaskListQuery(c *fiber.Ctx) service.TaskListQuery {
	query := service.TaskListQuery{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 0),
	}
	if search := c.Query("search"); search != "" {
		query.Search = &search
	}
	if raw := c.Query("completed"); raw != "" {
		completed := raw == "true"
		query.Completed = &completed
	}
	return query
}
