// Package todos manages each user's private list of to-do items.
package todos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/models"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title must be at most 100 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 500 characters")
	ErrInvalidPriority    = errors.New("priority must be one of Low, Medium, High")
	ErrTodoNotFound       = errors.New("to-do not found")
	ErrNotOwner           = errors.New("user not authorized")
)

// Store persists to-do items. ListTodos may return priority orders unsorted by
// priority; the service applies that order itself.
type Store interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	FindTodoByID(ctx context.Context, id string) (*models.Todo, error)
	ListTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodo(ctx context.Context, id string) error
}

type CreateInput struct {
	Title       string
	Description string
	Priority    string
}

// UpdateInput carries a partial update; nil fields are left as they are. An invalid
// priority is ignored rather than rejected.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*models.Todo, error) {
	title, err := cleanTitle(input.Title)
	if err != nil {
		return nil, err
	}
	description, err := cleanDescription(input.Description)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.Priority(input.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
	}

	todo := &models.Todo{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *Service) List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	if filter.Priority != "" && !filter.Priority.Valid() {
		filter.Priority = ""
	}
	if !filter.Sort.Valid() {
		filter.Sort = models.SortCreatedAtDesc
	}

	items, err := s.store.ListTodos(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	if filter.Sort.ByPriority() {
		models.SortTodos(items, filter.Sort)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, userID, todoID string, input UpdateInput) (*models.Todo, error) {
	todo, err := s.owned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := cleanTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		todo.Title = title
	}
	if input.Description != nil {
		description, err := cleanDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		todo.Description = description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil && models.Priority(*input.Priority).Valid() {
		todo.Priority = models.Priority(*input.Priority)
	}

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *Service) Delete(ctx context.Context, userID, todoID string) error {
	if _, err := s.owned(ctx, userID, todoID); err != nil {
		return err
	}

	if err := s.store.DeleteTodo(ctx, todoID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, todoID string) (*models.Todo, error) {
	todo, err := s.store.FindTodoByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	if todo.UserID != userID {
		return nil, ErrNotOwner
	}
	return todo, nil
}

func cleanTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func cleanDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return "", ErrDescriptionTooLong
	}
	return description, nil
}
