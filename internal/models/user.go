package models

import (
	"errors"
	"time"
)

// ErrSecurityPairMismatch is returned when a security question is stored without its answer hash or
// the other way round.
var ErrSecurityPairMismatch = errors.New("security question and answer must be set together")

// User represents an application user record.
type User struct {
	ID                 string    `bson:"_id"`
	Username           string    `bson:"username"`
	Email              string    `bson:"email"`
	PasswordHash       string    `bson:"passwordHash"`
	SecurityQuestion   string    `bson:"securityQuestion,omitempty"`
	SecurityAnswerHash string    `bson:"securityAnswerHash,omitempty"`
	Preferences        `bson:",inline"`
	CreatedAt          time.Time `bson:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt"`
}

// Sanitize returns a copy of the user without sensitive fields populated.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	u.SecurityAnswerHash = ""
	return u
}

// HasSecurityQuestion reports whether the user opted in to security question recovery.
func (u User) HasSecurityQuestion() bool {
	return u.SecurityQuestion != ""
}

// CheckSecurityPair enforces that the question and its answer hash are either both present or both absent.
func (u User) CheckSecurityPair() error {
	if (u.SecurityQuestion == "") != (u.SecurityAnswerHash == "") {
		return ErrSecurityPairMismatch
	}
	return nil
}
