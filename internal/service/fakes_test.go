package service

import (
	"errors"
	"time"

	"backend/internal/models"
	"backend/internal/repository"
)

// In-memory repository fakes for service tests.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *models.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetUserByID(id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAllUsers() ([]*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(user *models.User) error {
	if f.err != nil {
		return f.err
	}
	user.UpdatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(id int64, passwordHash string) error {
	if f.err != nil {
		return f.err
	}
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) DeleteUser(id int64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.users, id)
	return nil
}

type fakeBlacklistRepo struct {
	entries map[string]models.BlacklistedToken
	err     error
}

func newFakeBlacklistRepo() *fakeBlacklistRepo {
	return &fakeBlacklistRepo{entries: map[string]models.BlacklistedToken{}}
}

func (f *fakeBlacklistRepo) BlacklistToken(token string, userID int64, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	// Unique token constraint: duplicate insert is a no-op
	if _, ok := f.entries[token]; ok {
		return nil
	}
	f.entries[token] = models.BlacklistedToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	return nil
}

func (f *fakeBlacklistRepo) IsBlacklisted(token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.entries[token]
	return ok, nil
}

func (f *fakeBlacklistRepo) DeleteExpired(now time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var removed int64
	for token, entry := range f.entries {
		if entry.ExpiresAt.Before(now) {
			delete(f.entries, token)
			removed++
		}
	}
	return removed, nil
}

type fakeTodoRepo struct {
	todos  map[int64]*models.Todo
	nextID int64
	err    error
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: map[int64]*models.Todo{}, nextID: 1}
}

func (f *fakeTodoRepo) CreateTodo(todo *models.Todo) error {
	if f.err != nil {
		return f.err
	}
	todo.ID = f.nextID
	f.nextID++
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = todo.CreatedAt
	cp := *todo
	f.todos[todo.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) GetTodoByID(id int64) (*models.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	todo, ok := f.todos[id]
	if !ok {
		return nil, nil
	}
	cp := *todo
	return &cp, nil
}

func (f *fakeTodoRepo) GetTodos(userID int64, filter repository.TodoFilter) ([]*models.Todo, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []*models.Todo
	for _, todo := range f.todos {
		if todo.UserID != userID {
			continue
		}
		if filter.Status != "" && todo.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && todo.Priority != filter.Priority {
			continue
		}
		cp := *todo
		matched = append(matched, &cp)
	}
	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeTodoRepo) UpdateTodo(todo *models.Todo) error {
	if f.err != nil {
		return f.err
	}
	todo.UpdatedAt = time.Now()
	cp := *todo
	f.todos[todo.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) DeleteTodo(id int64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeTodoRepo) GetStats(userID int64, now time.Time) (*models.TodoStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	stats := &models.TodoStats{}
	for _, todo := range f.todos {
		if todo.UserID != userID {
			continue
		}
		stats.Total++
		switch todo.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusCompleted:
			stats.Completed++
		}
		if todo.Status != models.StatusCompleted && todo.DueDate != nil {
			if todo.DueDate.Before(now) {
				stats.Overdue++
			} else if !todo.DueDate.After(now.AddDate(0, 0, 3)) {
				stats.Upcoming++
			}
		}
	}
	return stats, nil
}
