package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wuwenbin0122/taskpad/internal/db"
)

// RecoveryChallenge is handed to an unauthenticated caller who asked to reset the
// password of the account behind an email.
type RecoveryChallenge struct {
	SecurityQuestion string
	UserID           string
}

type ResetInput struct {
	UserID         string
	SecurityAnswer string
	NewPassword    string
}

// RequestPasswordReset is the first recovery step. It keeps no state; the caller
// echoes the user id back in ResetPassword.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*RecoveryChallenge, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.HasSecurityQuestion() {
		return nil, ErrNoSecurityQuestion
	}

	return &RecoveryChallenge{SecurityQuestion: user.SecurityQuestion, UserID: user.ID}, nil
}

// ResetPassword is the second recovery step. The answer is compared byte for byte,
// so case matters. No token is issued; the user logs in with the new password.
// Repeated wrong answers are not counted or throttled.
func (s *Service) ResetPassword(ctx context.Context, input ResetInput) error {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" || input.SecurityAnswer == "" || utf8.RuneCountInString(input.NewPassword) < minPasswordLength {
		return ErrResetFieldsRequired
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.SecurityAnswerHash == "" {
		return ErrNoSecurityAnswer
	}

	if !s.hasher.Verify(input.SecurityAnswer, user.SecurityAnswerHash) {
		return ErrWrongAnswer
	}

	passwordHash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
