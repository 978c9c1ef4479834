package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wuwenbin0122/taskpad/internal/models"
)

const todoColumns = `id, user_id, title, description, completed, priority, created_at`

var postgresTodoOrder = map[models.SortOption]string{
	models.SortCreatedAtDesc: "created_at DESC",
	models.SortCreatedAtAsc:  "created_at ASC",
	models.SortCompletedDesc: "completed DESC, created_at DESC",
	models.SortCompletedAsc:  "completed ASC, created_at DESC",
}

func (p *Postgres) CreateTodo(ctx context.Context, todo *models.Todo) error {
	const query = `INSERT INTO todos (` + todoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := p.Pool.Exec(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Completed,
		string(todo.Priority),
		todo.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("postgres insert todo: %w", err)
	}
	return nil
}

func (p *Postgres) FindTodoByID(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := scanTodo(p.Pool.QueryRow(ctx, "SELECT "+todoColumns+" FROM todos WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres query todo: %w", err)
	}
	return todo, nil
}

func (p *Postgres) ListTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conditions = append(conditions, "completed = $"+strconv.Itoa(len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		conditions = append(conditions, "priority = $"+strconv.Itoa(len(args)))
	}

	order, ok := postgresTodoOrder[filter.Sort]
	if !ok {
		order = postgresTodoOrder[models.SortCreatedAtDesc]
	}

	query := "SELECT " + todoColumns + " FROM todos WHERE " + strings.Join(conditions, " AND ") + " ORDER BY " + order
	rows, err := p.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres list todos: %w", err)
	}
	defer rows.Close()

	items := make([]models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres scan todo: %w", err)
		}
		items = append(items, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list todos: %w", err)
	}
	return items, nil
}

func scanTodo(row pgx.Row) (*models.Todo, error) {
	var (
		todo     models.Todo
		priority string
	)
	if err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description, &todo.Completed, &priority, &todo.CreatedAt); err != nil {
		return nil, err
	}
	todo.Priority = models.Priority(priority)
	return &todo, nil
}

func (p *Postgres) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	const query = `UPDATE todos SET title = $2, description = $3, completed = $4, priority = $5 WHERE id = $1`
	tag, err := p.Pool.Exec(ctx, query, todo.ID, todo.Title, todo.Description, todo.Completed, string(todo.Priority))
	if err != nil {
		return fmt.Errorf("postgres update todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteTodo(ctx context.Context, id string) error {
	tag, err := p.Pool.Exec(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("postgres delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
