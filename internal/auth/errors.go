package auth

import "errors"

// Messages are shown to API clients verbatim.
var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrInvalidToken   = errors.New("invalid token")
	ErrSecretTooLong  = errors.New("secret must be at most 72 bytes")

	ErrCredentialsRequired  = errors.New("please provide valid credentials (username, email, password)")
	ErrUsernameTooShort     = errors.New("username must be at least 3 characters")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrPasswordTooWeak      = errors.New("password must be at least 6 characters")
	ErrSecurityPairRequired = errors.New("security question and answer must be provided together")
	ErrUserExists           = errors.New("user with that email or username already exists")

	ErrLoginFieldsRequired = errors.New("please enter all fields")
	ErrInvalidCredentials  = errors.New("invalid credentials")

	ErrUserNotFound             = errors.New("user not found")
	ErrSecurityQuestionRequired = errors.New("both security question and answer are required")

	ErrEmailRequired       = errors.New("please provide your email address")
	ErrResetFieldsRequired = errors.New("please provide all required fields and a new password of at least 6 characters")
	ErrNoSecurityQuestion  = errors.New("no security question set for this user, please contact support")
	ErrNoSecurityAnswer    = errors.New("no security answer set for this user")
	ErrWrongAnswer         = errors.New("incorrect security answer")
)
