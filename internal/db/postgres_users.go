package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wuwenbin0122/taskpad/internal/models"
)

const userColumns = `id, username, email, password_hash, COALESCE(security_question, ''), COALESCE(security_answer_hash, ''),
	default_filter_status, default_filter_priority, default_sort_option, created_at, updated_at`

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	if err := user.CheckSecurityPair(); err != nil {
		return err
	}

	const query = `INSERT INTO users (id, username, email, password_hash, security_question, security_answer_hash,
		default_filter_status, default_filter_priority, default_sort_option, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11)`

	_, err := p.Pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.SecurityQuestion,
		user.SecurityAnswerHash,
		string(user.DefaultFilterStatus),
		string(user.DefaultFilterPriority),
		string(user.DefaultSortOption),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("postgres insert user: %w", err)
	}
	return nil
}

func (p *Postgres) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return p.findUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (p *Postgres) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return p.findUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (p *Postgres) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	user, err := scanUser(p.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres query user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user           models.User
		status, filter string
		sort           string
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.SecurityQuestion,
		&user.SecurityAnswerHash,
		&status,
		&filter,
		&sort,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.DefaultFilterStatus = models.FilterStatus(status)
	user.DefaultFilterPriority = models.FilterPriority(filter)
	user.DefaultSortOption = models.SortOption(sort)
	return &user, nil
}

func (p *Postgres) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	return p.execUserUpdate(ctx, query, id, passwordHash)
}

func (p *Postgres) SetSecurityQuestion(ctx context.Context, id, question, answerHash string) error {
	if err := (models.User{SecurityQuestion: question, SecurityAnswerHash: answerHash}).CheckSecurityPair(); err != nil {
		return err
	}
	const query = `UPDATE users SET security_question = NULLIF($2, ''), security_answer_hash = NULLIF($3, ''),
		updated_at = NOW() WHERE id = $1`
	return p.execUserUpdate(ctx, query, id, question, answerHash)
}

func (p *Postgres) execUserUpdate(ctx context.Context, query string, args ...any) error {
	tag, err := p.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (*models.Preferences, error) {
	status := optionalText(update.DefaultFilterStatus)
	filter := optionalText(update.DefaultFilterPriority)
	sortOption := optionalText(update.DefaultSortOption)

	const query = `UPDATE users SET
		default_filter_status = COALESCE($2, default_filter_status),
		default_filter_priority = COALESCE($3, default_filter_priority),
		default_sort_option = COALESCE($4, default_sort_option),
		updated_at = CASE WHEN $2::text IS NULL AND $3::text IS NULL AND $4::text IS NULL THEN updated_at ELSE NOW() END
		WHERE id = $1
		RETURNING default_filter_status, default_filter_priority, default_sort_option`

	var (
		prefs         models.Preferences
		storedStatus  string
		storedFilter  string
		storedSortOpt string
	)
	err := p.Pool.QueryRow(ctx, query, id, status, filter, sortOption).
		Scan(&storedStatus, &storedFilter, &storedSortOpt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres update preferences: %w", err)
	}
	prefs.DefaultFilterStatus = models.FilterStatus(storedStatus)
	prefs.DefaultFilterPriority = models.FilterPriority(storedFilter)
	prefs.DefaultSortOption = models.SortOption(storedSortOpt)
	return &prefs, nil
}

// optionalText maps an absent preference field to SQL NULL.
func optionalText[T ~string](value *T) *string {
	if value == nil {
		return nil
	}
	text := string(*value)
	return &text
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
