package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TodoHandler interface {
	GetTodos(c *gin.Context)
	GetTodoByID(c *gin.Context)
	CreateTodo(c *gin.Context)
	UpdateTodo(c *gin.Context)
	UpdateTodoStatus(c *gin.Context)
	DeleteTodo(c *gin.Context)
	GetStats(c *gin.Context)
}

type todoHandler struct {
	todoService service.TodoService
	log         *logrus.Logger
}

func NewTodoHandler(todoService service.TodoService, log *logrus.Logger) TodoHandler {
	return &todoHandler{todoService: todoService, log: log}
}

type TodoRequest struct {
	Title       string     `json:"title" binding:"required,min=2,max=100"`
	Description string     `json:"description" binding:"omitempty,max=500"`
	Status      string     `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags" binding:"omitempty,dive,max=20"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in-progress completed"`
}

func (h *todoHandler) GetTodos(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := repository.TodoFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.todoService.GetTodos(user.ID, filter)
	if err != nil {
		h.log.Errorf("Failed to list todos for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"todos":   result.Todos,
		"pagination": gin.H{
			"total":      result.Total,
			"page":       result.Page,
			"limit":      result.Limit,
			"totalPages": result.TotalPages,
		},
	})
}

func (h *todoHandler) GetTodoByID(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodoByID(id, user.ID)
	if err != nil {
		h.respondTodoError(c, err, "retrieve")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": todo})
}

func (h *todoHandler) CreateTodo(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for todo creation: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoService.CreateTodo(todoInput(req), user.ID)
	if err != nil {
		h.log.Errorf("Failed to create todo for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": todo})
}

func (h *todoHandler) UpdateTodo(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for todo update: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoService.UpdateTodo(id, todoInput(req), user.ID)
	if err != nil {
		h.respondTodoError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": todo})
}

// UpdateTodoStatus updates only the status field.
func (h *todoHandler) UpdateTodoStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for status update: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo, err := h.todoService.UpdateTodoStatus(id, req.Status, user.ID)
	if err != nil {
		h.respondTodoError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": todo})
}

func (h *todoHandler) DeleteTodo(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(id, user.ID); err != nil {
		h.respondTodoError(c, err, "delete")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

func (h *todoHandler) GetStats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	stats, err := h.todoService.GetStats(user.ID)
	if err != nil {
		h.log.Errorf("Failed to get todo stats for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *todoHandler) respondTodoError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized to " + action + " this todo"})
	default:
		h.log.Errorf("Failed to %s todo: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " todo"})
	}
}

func todoInput(req TodoRequest) service.TodoInput {
	return service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
}
