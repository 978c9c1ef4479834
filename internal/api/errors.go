package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wuwenbin0122/taskpad/internal/auth"
	"github.com/wuwenbin0122/taskpad/internal/models"
	"github.com/wuwenbin0122/taskpad/internal/todos"
)

var errPayload = errors.New("invalid payload")

// errorStatus lists the errors whose message is safe to show the client. Anything
// else is answered with a generic 500.
var errorStatus = []struct {
	err    error
	status int
}{
	{errPayload, http.StatusBadRequest},

	{auth.ErrCredentialsRequired, http.StatusBadRequest},
	{auth.ErrUsernameTooShort, http.StatusBadRequest},
	{auth.ErrInvalidEmail, http.StatusBadRequest},
	{auth.ErrPasswordTooWeak, http.StatusBadRequest},
	{auth.ErrSecretTooLong, http.StatusBadRequest},
	{auth.ErrSecurityPairRequired, http.StatusBadRequest},
	{auth.ErrUserExists, http.StatusBadRequest},
	{auth.ErrLoginFieldsRequired, http.StatusBadRequest},
	{auth.ErrInvalidCredentials, http.StatusBadRequest},
	{auth.ErrSecurityQuestionRequired, http.StatusBadRequest},
	{auth.ErrEmailRequired, http.StatusBadRequest},
	{auth.ErrResetFieldsRequired, http.StatusBadRequest},
	{auth.ErrNoSecurityQuestion, http.StatusBadRequest},
	{auth.ErrNoSecurityAnswer, http.StatusBadRequest},
	{auth.ErrWrongAnswer, http.StatusBadRequest},
	{auth.ErrUserNotFound, http.StatusNotFound},

	{models.ErrInvalidFilterStatus, http.StatusBadRequest},
	{models.ErrInvalidFilterPriority, http.StatusBadRequest},
	{models.ErrInvalidSortOption, http.StatusBadRequest},

	{todos.ErrTitleRequired, http.StatusBadRequest},
	{todos.ErrTitleTooLong, http.StatusBadRequest},
	{todos.ErrDescriptionTooLong, http.StatusBadRequest},
	{todos.ErrInvalidPriority, http.StatusBadRequest},
	{todos.ErrTodoNotFound, http.StatusNotFound},
	{todos.ErrNotOwner, http.StatusUnauthorized},
}

func (h *Handler) writeError(c *gin.Context, op string, err error) {
	for _, known := range errorStatus {
		if errors.Is(err, known.err) {
			c.JSON(known.status, gin.H{"message": known.err.Error()})
			return
		}
	}

	h.logger.Errorw("request failed", "op", op, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "server error during " + op})
}
