package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/models"
)

type store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetSecurityQuestion(ctx context.Context, id, question, answerHash string) error
	UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (*models.Preferences, error)
	CreateTodo(ctx context.Context, todo *models.Todo) error
	FindTodoByID(ctx context.Context, id string) (*models.Todo, error)
	ListTodos(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

func newUser(suffix string) *models.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.User{
		ID:           uuid.NewString(),
		Username:     "user_" + suffix,
		Email:        suffix + "@example.com",
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehold",
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func uniqueSuffix() string {
	return uuid.NewString()[:8]
}

// runStoreSuite checks the behaviour every store driver has to share.
func runStoreSuite(t *testing.T, s store) {
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("user lifecycle", func(t *testing.T) {
		user := newUser(uniqueSuffix())
		user.SecurityQuestion = "Pet?"
		user.SecurityAnswerHash = "answer-hash"
		require.NoError(t, s.CreateUser(ctx, user))

		byEmail, err := s.FindUserByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, user.Username, byEmail.Username)
		assert.Equal(t, "Pet?", byEmail.SecurityQuestion)
		assert.Equal(t, "answer-hash", byEmail.SecurityAnswerHash)
		assert.Equal(t, models.DefaultPreferences(), byEmail.Preferences)

		require.NoError(t, s.UpdatePassword(ctx, user.ID, "new-hash"))
		byID, err := s.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", byID.PasswordHash)

		require.NoError(t, s.SetSecurityQuestion(ctx, user.ID, "City?", "city-hash"))
		byID, err = s.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "City?", byID.SecurityQuestion)
		assert.Equal(t, "city-hash", byID.SecurityAnswerHash)
	})

	t.Run("email lookup is exact", func(t *testing.T) {
		user := newUser(uniqueSuffix())
		require.NoError(t, s.CreateUser(ctx, user))

		_, err := s.FindUserByEmail(ctx, "UPPER"+user.Email)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("missing records", func(t *testing.T) {
		missing := uuid.NewString()

		_, err := s.FindUserByID(ctx, missing)
		assert.ErrorIs(t, err, db.ErrNotFound)
		_, err = s.FindUserByEmail(ctx, missing+"@example.com")
		assert.ErrorIs(t, err, db.ErrNotFound)
		assert.ErrorIs(t, s.UpdatePassword(ctx, missing, "hash"), db.ErrNotFound)
		assert.ErrorIs(t, s.SetSecurityQuestion(ctx, missing, "Q?", "hash"), db.ErrNotFound)
		status := models.FilterStatusCompleted
		_, err = s.UpdatePreferences(ctx, missing, models.PreferencesUpdate{DefaultFilterStatus: &status})
		assert.ErrorIs(t, err, db.ErrNotFound)
		_, err = s.FindTodoByID(ctx, missing)
		assert.ErrorIs(t, err, db.ErrNotFound)
		assert.ErrorIs(t, s.DeleteTodo(ctx, missing), db.ErrNotFound)
	})

	t.Run("duplicate username or email", func(t *testing.T) {
		suffix := uniqueSuffix()
		first := newUser(suffix)
		require.NoError(t, s.CreateUser(ctx, first))

		sameName := newUser(uniqueSuffix())
		sameName.Username = first.Username
		assert.ErrorIs(t, s.CreateUser(ctx, sameName), db.ErrDuplicate)

		sameEmail := newUser(uniqueSuffix())
		sameEmail.Email = first.Email
		assert.ErrorIs(t, s.CreateUser(ctx, sameEmail), db.ErrDuplicate)
	})

	t.Run("concurrent signups with one email", func(t *testing.T) {
		email := uniqueSuffix() + "@example.com"

		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			created   int
			duplicate int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				user := newUser(uniqueSuffix())
				user.Email = email
				err := s.CreateUser(ctx, user)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case assert.ErrorIs(t, err, db.ErrDuplicate):
					duplicate++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		assert.Equal(t, attempts-1, duplicate)
	})

	t.Run("preferences partial update", func(t *testing.T) {
		user := newUser(uniqueSuffix())
		require.NoError(t, s.CreateUser(ctx, user))

		priority := models.FilterPriority("High")
		prefs, err := s.UpdatePreferences(ctx, user.ID, models.PreferencesUpdate{DefaultFilterPriority: &priority})
		require.NoError(t, err)
		assert.Equal(t, models.FilterStatusAll, prefs.DefaultFilterStatus)
		assert.Equal(t, priority, prefs.DefaultFilterPriority)
		assert.Equal(t, models.SortCreatedAtDesc, prefs.DefaultSortOption)

		sortOpt := models.SortPriorityDesc
		prefs, err = s.UpdatePreferences(ctx, user.ID, models.PreferencesUpdate{DefaultSortOption: &sortOpt})
		require.NoError(t, err)
		assert.Equal(t, priority, prefs.DefaultFilterPriority)
		assert.Equal(t, models.SortPriorityDesc, prefs.DefaultSortOption)

		stored, err := s.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, *prefs, stored.Preferences)
	})

	t.Run("todo lifecycle and listing", func(t *testing.T) {
		owner := newUser(uniqueSuffix())
		other := newUser(uniqueSuffix())
		require.NoError(t, s.CreateUser(ctx, owner))
		require.NoError(t, s.CreateUser(ctx, other))

		base := time.Now().UTC().Truncate(time.Second)
		items := []*models.Todo{
			{ID: uuid.NewString(), UserID: owner.ID, Title: "oldest", Priority: models.PriorityLow, CreatedAt: base},
			{ID: uuid.NewString(), UserID: owner.ID, Title: "middle", Priority: models.PriorityHigh, Completed: true, CreatedAt: base.Add(time.Second)},
			{ID: uuid.NewString(), UserID: owner.ID, Title: "newest", Priority: models.PriorityHigh, CreatedAt: base.Add(2 * time.Second)},
			{ID: uuid.NewString(), UserID: other.ID, Title: "foreign", Priority: models.PriorityMedium, CreatedAt: base},
		}
		for _, item := range items {
			require.NoError(t, s.CreateTodo(ctx, item))
		}

		listed, err := s.ListTodos(ctx, owner.ID, models.TodoFilter{Sort: models.SortCreatedAtDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"newest", "middle", "oldest"}, titles(listed))

		listed, err = s.ListTodos(ctx, owner.ID, models.TodoFilter{Sort: models.SortCreatedAtAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"oldest", "middle", "newest"}, titles(listed))

		completed := true
		listed, err = s.ListTodos(ctx, owner.ID, models.TodoFilter{Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, []string{"middle"}, titles(listed))

		listed, err = s.ListTodos(ctx, owner.ID, models.TodoFilter{Priority: models.PriorityHigh, Sort: models.SortCreatedAtDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"newest", "middle"}, titles(listed))

		listed, err = s.ListTodos(ctx, owner.ID, models.TodoFilter{Sort: models.SortCompletedDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"middle", "newest", "oldest"}, titles(listed))

		found, err := s.FindTodoByID(ctx, items[0].ID)
		require.NoError(t, err)
		found.Title = "renamed"
		found.Completed = true
		require.NoError(t, s.UpdateTodo(ctx, found))

		found, err = s.FindTodoByID(ctx, items[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", found.Title)
		assert.True(t, found.Completed)
		assert.Equal(t, owner.ID, found.UserID)

		require.NoError(t, s.DeleteTodo(ctx, items[0].ID))
		_, err = s.FindTodoByID(ctx, items[0].ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		missing := *items[0]
		assert.ErrorIs(t, s.UpdateTodo(ctx, &missing), db.ErrNotFound)
	})
}

func titles(items []models.Todo) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}
