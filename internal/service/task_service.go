package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/events"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util/errorutil"
)

// Pagination defaults used when the dependencies leave them unset.
const (
	DefaultPageLimit = 5
	MaxPageLimit     = 100
)

// TaskService implements the owner-scoped task operations.
type TaskService struct {
	tasks        repository.TaskRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo         repository.TaskRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	DefaultPageLimit int
	MaxPageLimit     int
}

// TaskListQuery describes list filters. Nil fields are not applied.
type TaskListQuery struct {
	Search    *string
	Completed *bool
	Page      int
	Limit     int
}

// TaskPage is one page of a filtered listing.
type TaskPage struct {
	Tasks      []domain.Task
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultLimit := deps.DefaultPageLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	maxLimit := deps.MaxPageLimit
	if maxLimit <= 0 {
		maxLimit = MaxPageLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &TaskService{
		tasks:        deps.TaskRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// ListTasks returns one page of the owner's tasks, most recent first.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, query TaskListQuery) (*TaskPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	// Pages past this bound are empty anyway; the cap keeps the offset from overflowing.
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	filter := repository.TaskFilter{
		OwnerID:   ownerID,
		Search:    query.Search,
		Completed: query.Completed,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	total, err := s.tasks.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	return &TaskPage{
		Tasks:      tasks,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetTask returns a single task owned by ownerID.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, mapTaskErr("get task", err)
	}
	return task, nil
}

// CreateTask creates an open task owned by ownerID.
func (s *TaskService) CreateTask(ctx context.Context, ownerID, title string) (*domain.Task, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		OwnerID:   ownerID,
		Title:     title,
		Completed: false,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.publishEvent(ctx, events.EventTaskCreated, task, events.TaskCreatedPayload{Title: task.Title})
	return task, nil
}

// UpdateTask applies a partial update to a task owned by ownerID. A task of
// another owner is reported exactly like a missing one.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID string, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	task, err := s.tasks.Update(ctx, ownerID, taskID, patch)
	if err != nil {
		return nil, mapTaskErr("update task", err)
	}

	if !patch.Empty() {
		s.publishEvent(ctx, events.EventTaskUpdated, task, events.TaskUpdatedPayload{
			TitleChanged:     patch.Title != nil,
			CompletedChanged: patch.Completed != nil,
			Completed:        patch.Completed,
		})
	}
	return task, nil
}

// DeleteTask permanently removes a task owned by ownerID.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return mapTaskErr("delete task", err)
	}
	s.publishEvent(ctx, events.EventTaskDeleted, &domain.Task{ID: taskID, OwnerID: ownerID}, nil)
	return nil
}

func (s *TaskService) publishEvent(ctx context.Context, eventType events.EventType, task *domain.Task, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TaskID:    task.ID,
		OwnerID:   task.OwnerID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("task event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
}

func validateTitle(raw string) (string, error) {
	title, ok := domain.NormalizeTaskTitle(raw)
	if title == "" {
		return "", apperrors.NewValidationError("Task title is required", nil)
	}
	if !ok {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("Task title must be between %d and %d characters", domain.TaskTitleMinLength, domain.TaskTitleMaxLength),
			map[string]any{"field": "title"},
		)
	}
	return title, nil
}

func mapTaskErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Task", nil)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func totalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
