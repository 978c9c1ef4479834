package db

import (
	"context"
	"sync"
	"time"

	"github.com/wuwenbin0122/taskpad/internal/models"
)

// Memory is a process-local store used by tests and the "memory" store driver.
// Uniqueness of usernames and emails is checked and claimed under one lock, so
// concurrent signups cannot both win.
type Memory struct {
	mu           sync.RWMutex
	usersByID    map[string]*models.User
	usersByName  map[string]*models.User
	usersByEmail map[string]*models.User
	todos        map[string]*models.Todo
}

func NewMemory() *Memory {
	return &Memory{
		usersByID:    make(map[string]*models.User),
		usersByName:  make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		todos:        make(map[string]*models.Todo),
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	if err := user.CheckSecurityPair(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByName[user.Username]; exists {
		return ErrDuplicate
	}
	if _, exists := m.usersByEmail[user.Email]; exists {
		return ErrDuplicate
	}
	if _, exists := m.usersByID[user.ID]; exists {
		return ErrDuplicate
	}

	stored := *user
	m.usersByID[stored.ID] = &stored
	m.usersByName[stored.Username] = &stored
	m.usersByEmail[stored.Email] = &stored
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *Memory) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *Memory) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByID[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) SetSecurityQuestion(ctx context.Context, id, question, answerHash string) error {
	if err := (models.User{SecurityQuestion: question, SecurityAnswerHash: answerHash}).CheckSecurityPair(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByID[id]
	if !ok {
		return ErrNotFound
	}
	user.SecurityQuestion = question
	user.SecurityAnswerHash = answerHash
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (*models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !update.Empty() {
		update.Apply(&user.Preferences)
		user.UpdatedAt = time.Now().UTC()
	}
	prefs := user.Preferences
	return &prefs, nil
}

func (m *Memory) CreateTodo(ctx context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.todos[todo.ID]; exists {
		return ErrDuplicate
	}
	stored := *todo
	m.todos[stored.ID] = &stored
	return nil
}

func (m *Memory) FindTodoByID(ctx context.Context, id string) (*models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *todo
	return &out, nil
}

// ListTodos returns the user's items matching filter. Priority orders come back newest first;
// the caller applies the rank comparator.
func (m *Memory) ListTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	m.mu.RLock()
	items := make([]models.Todo, 0)
	for _, todo := range m.todos {
		if todo.UserID != userID {
			continue
		}
		if filter.Completed != nil && todo.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != "" && todo.Priority != filter.Priority {
			continue
		}
		items = append(items, *todo)
	}
	m.mu.RUnlock()

	opt := filter.Sort
	if opt.ByPriority() {
		opt = models.SortCreatedAtDesc
	}
	models.SortTodos(items, opt)
	return items, nil
}

func (m *Memory) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[todo.ID]; !ok {
		return ErrNotFound
	}
	stored := *todo
	m.todos[stored.ID] = &stored
	return nil
}

func (m *Memory) DeleteTodo(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return ErrNotFound
	}
	delete(m.todos, id)
	return nil
}
