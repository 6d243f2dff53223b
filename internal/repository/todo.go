package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// TodoFilter narrows and orders a user's todo listing. Zero values
// mean "no filter". Filtering, search, sorting and pagination are all
// pushed down to the database.
type TodoFilter struct {
	Status   string
	Priority string
	Search   string
	SortBy   string
	Page     int
	Limit    int
}

type TodoRepository interface {
	CreateTodo(todo *models.Todo) error
	GetTodoByID(id int64) (*models.Todo, error)
	GetTodos(userID int64, filter TodoFilter) ([]*models.Todo, int, error)
	UpdateTodo(todo *models.Todo) error
	DeleteTodo(id int64) error
	GetStats(userID int64, now time.Time) (*models.TodoStats, error)
}

type todoRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTodoRepository(db *sqlx.DB, logger *zap.Logger) TodoRepository {
	return &todoRepository{db: db, logger: logger}
}

const todoColumns = `id, user_id, title, description, status, priority, due_date, completed_at, tags, created_at, updated_at`

func (r *todoRepository) CreateTodo(todo *models.Todo) error {
	query := `INSERT INTO todos (user_id, title, description, status, priority, due_date, completed_at, tags)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, status, priority, created_at, updated_at`
	return r.db.QueryRowx(query, todo.UserID, todo.Title, todo.Description, todo.Status,
		todo.Priority, todo.DueDate, todo.CompletedAt, pq.Array(todo.Tags)).
		Scan(&todo.ID, &todo.Status, &todo.Priority, &todo.CreatedAt, &todo.UpdatedAt)
}

func (r *todoRepository) GetTodoByID(id int64) (*models.Todo, error) {
	var todo models.Todo
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	err := r.db.Get(&todo, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Todo not found
		}
		return nil, err
	}
	return &todo, nil
}

// GetTodos returns one page of the user's todos plus the total count
// matching the filter.
func (r *todoRepository) GetTodos(userID int64, filter TodoFilter) ([]*models.Todo, int, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM todos WHERE ` + whereClause
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	switch filter.SortBy {
	case "dueDate":
		orderBy = "due_date ASC NULLS LAST"
	case "priority":
		// high > medium > low
		orderBy = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC"
	case "title":
		orderBy = "title ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`SELECT %s FROM todos WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		todoColumns, whereClause, orderBy, len(args)-1, len(args))

	var todos []*models.Todo
	if err := r.db.Select(&todos, query, args...); err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

func (r *todoRepository) UpdateTodo(todo *models.Todo) error {
	query := `UPDATE todos SET title = $1, description = $2, status = $3, priority = $4,
	          due_date = $5, completed_at = $6, tags = $7, updated_at = now()
	          WHERE id = $8 RETURNING updated_at`
	return r.db.QueryRowx(query, todo.Title, todo.Description, todo.Status, todo.Priority,
		todo.DueDate, todo.CompletedAt, pq.Array(todo.Tags), todo.ID).
		Scan(&todo.UpdatedAt)
}

func (r *todoRepository) DeleteTodo(id int64) error {
	query := `DELETE FROM todos WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// GetStats aggregates counts by status plus overdue and upcoming
// (due within 3 days) buckets, excluding completed todos from both.
func (r *todoRepository) GetStats(userID int64, now time.Time) (*models.TodoStats, error) {
	stats := &models.TodoStats{}

	rows, err := r.db.Queryx(`SELECT status, COUNT(*) FROM todos WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case models.StatusPending:
			stats.Pending = count
		case models.StatusInProgress:
			stats.InProgress = count
		case models.StatusCompleted:
			stats.Completed = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query := `SELECT COUNT(*) FROM todos WHERE user_id = $1 AND status <> 'completed' AND due_date < $2`
	if err := r.db.Get(&stats.Overdue, query, userID, now); err != nil {
		return nil, err
	}

	query = `SELECT COUNT(*) FROM todos WHERE user_id = $1 AND status <> 'completed' AND due_date >= $2 AND due_date <= $3`
	if err := r.db.Get(&stats.Upcoming, query, userID, now, now.AddDate(0, 0, 3)); err != nil {
		return nil, err
	}

	return stats, nil
}
