package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wuwenbin0122/taskpad/internal/auth"
	"github.com/wuwenbin0122/taskpad/internal/db"
	"github.com/wuwenbin0122/taskpad/internal/models"
)

func newTestService(t *testing.T) (*auth.Service, *db.Memory) {
	t.Helper()

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected error creating hasher: %v", err)
	}
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating token service: %v", err)
	}

	store := db.NewMemory()
	return auth.NewService(store, hasher, tokens), store
}

func TestAuthServiceSignupAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	signupResult, err := svc.Signup(ctx, auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	if signupResult.Token == "" {
		t.Fatalf("expected token on signup")
	}

	if signupResult.User.Username != "alice" {
		t.Fatalf("expected username alice, got %s", signupResult.User.Username)
	}

	if signupResult.User.ID == "" {
		t.Fatalf("expected user id to be populated")
	}

	if signupResult.User.PasswordHash != "" {
		t.Fatalf("expected password hash stripped from result")
	}

	if signupResult.User.Preferences != models.DefaultPreferences() {
		t.Fatalf("expected default preferences, got %+v", signupResult.User.Preferences)
	}

	subject, err := svc.Tokens().Verify(signupResult.Token)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}

	if subject != signupResult.User.ID {
		t.Fatalf("expected token subject %s, got %s", signupResult.User.ID, subject)
	}

	loginResult, err := svc.Login(ctx, auth.LoginInput{
		Email:    "alice@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	if loginResult.Token == "" {
		t.Fatalf("expected token on login")
	}

	if loginResult.User.ID != signupResult.User.ID {
		t.Fatalf("expected login user %s, got %s", signupResult.User.ID, loginResult.User.ID)
	}

	if _, err := svc.Login(ctx, auth.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthServiceLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	_, unknownErr := svc.Login(ctx, auth.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	_, wrongErr := svc.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "nope123"})

	if !errors.Is(unknownErr, auth.ErrInvalidCredentials) || !errors.Is(wrongErr, auth.ErrInvalidCredentials) {
		t.Fatalf("expected both failures to be invalid credentials, got %v and %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("expected identical messages, got %q and %q", unknownErr, wrongErr)
	}
}

func TestAuthServiceSignupDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	if _, err := svc.Signup(ctx, auth.SignupInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "another1",
	}); !errors.Is(err, auth.ErrUserExists) {
		t.Fatalf("expected duplicate username error, got %v", err)
	}

	if _, err := svc.Signup(ctx, auth.SignupInput{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another1",
	}); !errors.Is(err, auth.ErrUserExists) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestAuthServiceSignupValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input auth.SignupInput
		want  error
	}{
		{"missing username", auth.SignupInput{Email: "a@example.com", Password: "secret1"}, auth.ErrCredentialsRequired},
		{"missing email", auth.SignupInput{Username: "alice", Password: "secret1"}, auth.ErrCredentialsRequired},
		{"missing password", auth.SignupInput{Username: "alice", Email: "a@example.com"}, auth.ErrCredentialsRequired},
		{"short password", auth.SignupInput{Username: "alice", Email: "a@example.com", Password: "12345"}, auth.ErrPasswordTooWeak},
		{"short multibyte password", auth.SignupInput{Username: "alice", Email: "a@example.com", Password: "ééé"}, auth.ErrPasswordTooWeak},
		{"short multibyte username", auth.SignupInput{Username: "éé", Email: "a@example.com", Password: "secret1"}, auth.ErrUsernameTooShort},
		{"short username", auth.SignupInput{Username: "al", Email: "a@example.com", Password: "secret1"}, auth.ErrUsernameTooShort},
		{"bad email", auth.SignupInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, auth.ErrInvalidEmail},
		{"question without answer", auth.SignupInput{Username: "alice", Email: "a@example.com", Password: "secret1", SecurityQuestion: "Pet?"}, auth.ErrSecurityPairRequired},
		{"answer without question", auth.SignupInput{Username: "alice", Email: "a@example.com", Password: "secret1", SecurityAnswer: "rex"}, auth.ErrSecurityPairRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := store.FindUserByEmail(ctx, "a@example.com"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected no user persisted after failed signups, got %v", err)
	}
}

func TestAuthServiceSignupWithSecurityQuestion(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, auth.SignupInput{
		Username:         "bob",
		Email:            "bob@example.com",
		Password:         "secret1",
		SecurityQuestion: "  First pet?  ",
		SecurityAnswer:   "Rex",
	})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	stored, err := store.FindUserByID(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}

	if stored.SecurityQuestion != "First pet?" {
		t.Fatalf("expected trimmed question, got %q", stored.SecurityQuestion)
	}
	if stored.SecurityAnswerHash == "" || stored.SecurityAnswerHash == "Rex" {
		t.Fatalf("expected answer stored as hash, got %q", stored.SecurityAnswerHash)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Fatalf("expected password stored as hash")
	}
}

func TestAuthServiceGetSelf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, auth.SignupInput{
		Username:         "carol",
		Email:            "carol@example.com",
		Password:         "secret1",
		SecurityQuestion: "City?",
		SecurityAnswer:   "Oslo",
	})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	user, err := svc.GetSelf(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("get self returned error: %v", err)
	}

	if user.PasswordHash != "" || user.SecurityAnswerHash != "" {
		t.Fatalf("expected hashes stripped, got %+v", user)
	}
	if user.SecurityQuestion != "City?" {
		t.Fatalf("expected security question to be visible, got %q", user.SecurityQuestion)
	}

	if _, err := svc.GetSelf(ctx, "missing"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestAuthServiceUpdatePreferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, auth.SignupInput{Username: "dave", Email: "dave@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	status := models.FilterStatusCompleted
	prefs, err := svc.UpdatePreferences(ctx, result.User.ID, models.PreferencesUpdate{DefaultFilterStatus: &status})
	if err != nil {
		t.Fatalf("update preferences returned error: %v", err)
	}

	want := models.DefaultPreferences()
	want.DefaultFilterStatus = models.FilterStatusCompleted
	if *prefs != want {
		t.Fatalf("expected %+v, got %+v", want, *prefs)
	}

	prefs, err = svc.UpdatePreferences(ctx, result.User.ID, models.PreferencesUpdate{})
	if err != nil {
		t.Fatalf("empty update returned error: %v", err)
	}
	if *prefs != want {
		t.Fatalf("expected empty update to leave %+v, got %+v", want, *prefs)
	}

	bad := models.SortOption("alphabetical")
	if _, err := svc.UpdatePreferences(ctx, result.User.ID, models.PreferencesUpdate{DefaultSortOption: &bad}); !errors.Is(err, models.ErrInvalidSortOption) {
		t.Fatalf("expected invalid sort option, got %v", err)
	}

	if _, err := svc.UpdatePreferences(ctx, "missing", models.PreferencesUpdate{DefaultFilterStatus: &status}); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestAuthServiceSetSecurityQuestion(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, auth.SignupInput{Username: "erin", Email: "erin@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup returned error: %v", err)
	}

	if err := svc.SetSecurityQuestion(ctx, result.User.ID, "", "answer"); !errors.Is(err, auth.ErrSecurityQuestionRequired) {
		t.Fatalf("expected missing question error, got %v", err)
	}
	if err := svc.SetSecurityQuestion(ctx, result.User.ID, "Pet?", ""); !errors.Is(err, auth.ErrSecurityQuestionRequired) {
		t.Fatalf("expected missing answer error, got %v", err)
	}

	if err := svc.SetSecurityQuestion(ctx, result.User.ID, "Pet?", "Rex"); err != nil {
		t.Fatalf("set security question returned error: %v", err)
	}

	stored, err := store.FindUserByID(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.SecurityQuestion != "Pet?" || stored.SecurityAnswerHash == "" {
		t.Fatalf("expected question and hashed answer stored, got %+v", stored)
	}

	if err := svc.SetSecurityQuestion(ctx, "missing", "Pet?", "Rex"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestAuthServiceSignupCountsCharacters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, auth.SignupInput{
		Username: "zoë",
		Email:    "zoe@example.com",
		Password: "éééééé",
	})
	if err != nil {
		t.Fatalf("expected six multibyte characters to be accepted, got %v", err)
	}

	if _, err := svc.Login(ctx, auth.LoginInput{Email: "zoe@example.com", Password: "éééééé"}); err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	if result.User.Username != "zoë" {
		t.Fatalf("expected username zoë, got %s", result.User.Username)
	}
}
