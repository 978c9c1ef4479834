package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/models"
)

const (
	minPasswordLength = 6
	minUsernameLength = 3
)

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// UserStore persists user records. Implementations must enforce username and email
// uniqueness themselves and report a collision as db.ErrDuplicate; a missing record is
// db.ErrNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetSecurityQuestion(ctx context.Context, id, question, answerHash string) error
	UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (*models.Preferences, error)
}

type SignupInput struct {
	Username         string
	Email            string
	Password         string
	SecurityQuestion string
	SecurityAnswer   string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

type Service struct {
	users  UserStore
	hasher *Hasher
	tokens *TokenService
}

func NewService(users UserStore, hasher *Hasher, tokens *TokenService) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Tokens exposes the token service so the session middleware can verify requests.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	question := strings.TrimSpace(input.SecurityQuestion)

	if username == "" || email == "" || input.Password == "" {
		return nil, ErrCredentialsRequired
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooWeak
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if (question == "") != (input.SecurityAnswer == "") {
		return nil, ErrSecurityPairRequired
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var answerHash string
	if question != "" {
		answerHash, err = s.hasher.Hash(input.SecurityAnswer)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              email,
		PasswordHash:       passwordHash,
		SecurityQuestion:   question,
		SecurityAnswerHash: answerHash,
		Preferences:        models.DefaultPreferences(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

// Login does not tell an unknown email apart from a wrong password.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.hasher.VerifyDummy(input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// GetSelf loads the caller's record with both hashes stripped.
func (s *Service) GetSelf(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitize()
	return &sanitized, nil
}

func (s *Service) SetSecurityQuestion(ctx context.Context, userID, question, answer string) error {
	question = strings.TrimSpace(question)
	if question == "" || answer == "" {
		return ErrSecurityQuestionRequired
	}

	answerHash, err := s.hasher.Hash(answer)
	if err != nil {
		return err
	}

	if err := s.users.SetSecurityQuestion(ctx, userID, question, answerHash); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set security question: %w", err)
	}
	return nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, update models.PreferencesUpdate) (*models.Preferences, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	prefs, err := s.users.UpdatePreferences(ctx, userID, update)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return prefs, nil
}

func (s *Service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitize(),
	}, nil
}
