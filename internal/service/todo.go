package service

import (
	"errors"
	"fmt"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrNotOwner     = errors.New("not authorized to access this todo")
)

// TodoPage is one page of a user's todos plus pagination metadata.
type TodoPage struct {
	Todos      []*models.Todo
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// TodoInput carries the client-supplied todo fields.
type TodoInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
}

type TodoService interface {
	GetTodos(userID int64, filter repository.TodoFilter) (*TodoPage, error)
	GetTodoByID(todoID, userID int64) (*models.Todo, error)
	CreateTodo(input TodoInput, userID int64) (*models.Todo, error)
	UpdateTodo(todoID int64, input TodoInput, userID int64) (*models.Todo, error)
	UpdateTodoStatus(todoID int64, status string, userID int64) (*models.Todo, error)
	DeleteTodo(todoID, userID int64) error
	GetStats(userID int64) (*models.TodoStats, error)
}

type todoService struct {
	todos  repository.TodoRepository
	logger *zap.Logger
}

func NewTodoService(todos repository.TodoRepository, logger *zap.Logger) TodoService {
	return &todoService{todos: todos, logger: logger}
}

func (s *todoService) GetTodos(userID int64, filter repository.TodoFilter) (*TodoPage, error) {
	// Unknown filter values fall through to "no filter"
	if !models.ValidStatus(filter.Status) {
		filter.Status = ""
	}
	if !models.ValidPriority(filter.Priority) {
		filter.Priority = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	todos, total, err := s.todos.GetTodos(userID, filter)
	if err != nil {
		s.logger.Error("Failed to list todos", zap.Error(err))
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	return &TodoPage{
		Todos:      todos,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *todoService) GetTodoByID(todoID, userID int64) (*models.Todo, error) {
	return s.ownedTodo(todoID, userID)
}

func (s *todoService) CreateTodo(input TodoInput, userID int64) (*models.Todo, error) {
	todo := &models.Todo{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Tags:        input.Tags,
	}
	if todo.Status == "" {
		todo.Status = models.StatusPending
	}
	if todo.Priority == "" {
		todo.Priority = models.PriorityMedium
	}
	if todo.Tags == nil {
		todo.Tags = []string{}
	}
	applyCompletedAt(todo, nil)

	if err := s.todos.CreateTodo(todo); err != nil {
		s.logger.Error("Failed to create todo", zap.Error(err))
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) UpdateTodo(todoID int64, input TodoInput, userID int64) (*models.Todo, error) {
	todo, err := s.ownedTodo(todoID, userID)
	if err != nil {
		return nil, err
	}

	previous := todo.CompletedAt
	todo.Title = input.Title
	todo.Description = input.Description
	if input.Status != "" {
		todo.Status = input.Status
	}
	if input.Priority != "" {
		todo.Priority = input.Priority
	}
	todo.DueDate = input.DueDate
	if input.Tags != nil {
		todo.Tags = input.Tags
	}
	applyCompletedAt(todo, previous)

	if err := s.todos.UpdateTodo(todo); err != nil {
		s.logger.Error("Failed to update todo", zap.Error(err))
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) UpdateTodoStatus(todoID int64, status string, userID int64) (*models.Todo, error) {
	todo, err := s.ownedTodo(todoID, userID)
	if err != nil {
		return nil, err
	}

	previous := todo.CompletedAt
	todo.Status = status
	applyCompletedAt(todo, previous)

	if err := s.todos.UpdateTodo(todo); err != nil {
		s.logger.Error("Failed to update todo status", zap.Error(err))
		return nil, fmt.Errorf("failed to update todo status: %w", err)
	}
	return todo, nil
}

func (s *todoService) DeleteTodo(todoID, userID int64) error {
	if _, err := s.ownedTodo(todoID, userID); err != nil {
		return err
	}
	if err := s.todos.DeleteTodo(todoID); err != nil {
		s.logger.Error("Failed to delete todo", zap.Error(err))
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *todoService) GetStats(userID int64) (*models.TodoStats, error) {
	stats, err := s.todos.GetStats(userID, time.Now())
	if err != nil {
		s.logger.Error("Failed to get todo stats", zap.Error(err))
		return nil, fmt.Errorf("failed to get todo stats: %w", err)
	}
	return stats, nil
}

// ownedTodo fetches a todo and enforces that it belongs to the caller.
func (s *todoService) ownedTodo(todoID, userID int64) (*models.Todo, error) {
	todo, err := s.todos.GetTodoByID(todoID)
	if err != nil {
		s.logger.Error("Failed to get todo", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve todo: %w", err)
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}
	if todo.UserID != userID {
		return nil, ErrNotOwner
	}
	return todo, nil
}

// applyCompletedAt keeps completed_at in sync with status: set when a
// todo becomes completed, cleared when it leaves completed.
func applyCompletedAt(todo *models.Todo, previous *time.Time) {
	if todo.Status == models.StatusCompleted {
		if previous != nil {
			todo.CompletedAt = previous
		} else {
			now := time.Now()
			todo.CompletedAt = &now
		}
		return
	}
	todo.CompletedAt = nil
}
