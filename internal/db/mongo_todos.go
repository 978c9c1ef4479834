package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wuwenbin0122/taskpad/internal/models"
)

func (m *Mongo) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if _, err := m.Todos.InsertOne(ctx, todo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("mongo insert todo: %w", err)
	}
	return nil
}

func (m *Mongo) FindTodoByID(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	if err := m.Todos.FindOne(ctx, bson.M{"_id": id}).Decode(&todo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo query todo: %w", err)
	}
	return &todo, nil
}

func (m *Mongo) ListTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	query := bson.M{"user": userID}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	cursor, err := m.Todos.Find(ctx, query, options.Find().SetSort(mongoSort(filter.Sort)))
	if err != nil {
		return nil, fmt.Errorf("mongo list todos: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Todo, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo decode todos: %w", err)
	}
	return items, nil
}

// mongoSort mirrors models.SortTodos for the orders the database can apply itself.
func mongoSort(opt models.SortOption) bson.D {
	switch opt {
	case models.SortCreatedAtAsc:
		return bson.D{{Key: "createdAt", Value: 1}}
	case models.SortCompletedDesc:
		return bson.D{{Key: "completed", Value: -1}, {Key: "createdAt", Value: -1}}
	case models.SortCompletedAsc:
		return bson.D{{Key: "completed", Value: 1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (m *Mongo) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	result, err := m.Todos.ReplaceOne(ctx, bson.M{"_id": todo.ID}, todo)
	if err != nil {
		return fmt.Errorf("mongo update todo: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteTodo(ctx context.Context, id string) error {
	result, err := m.Todos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete todo: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
