package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/taskpad/internal/auth"
	"github.com/wuwenbin0122/taskpad/internal/models"
	"github.com/wuwenbin0122/taskpad/internal/todos"
)

type Handler struct {
	authService *auth.Service
	todoService *todos.Service
	logger      *zap.SugaredLogger
}

func NewHandler(authService *auth.Service, todoService *todos.Service, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{authService: authService, todoService: todoService, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")
	requireAuth := RequireAuth(h.authService.Tokens())

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/signup", h.handleSignup)
	authGroup.POST("/login", h.handleLogin)
	authGroup.POST("/forgot-password-request", h.handleForgotPasswordRequest)
	authGroup.POST("/reset-password-security-question", h.handleResetPassword)
	authGroup.GET("/user", requireAuth, h.handleGetUser)
	authGroup.PUT("/preferences", requireAuth, h.handleUpdatePreferences)
	authGroup.PUT("/set-security-question", requireAuth, h.handleSetSecurityQuestion)

	todoGroup := apiGroup.Group("/todos", requireAuth)
	todoGroup.POST("", h.handleCreateTodo)
	todoGroup.GET("", h.handleListTodos)
	todoGroup.PUT("/:id", h.handleUpdateTodo)
	todoGroup.DELETE("/:id", h.handleDeleteTodo)
}

type signupRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type preferencesRequest struct {
	DefaultFilterStatus   *models.FilterStatus   `json:"defaultFilterStatus"`
	DefaultFilterPriority *models.FilterPriority `json:"defaultFilterPriority"`
	DefaultSortOption     *models.SortOption     `json:"defaultSortOption"`
}

type securityQuestionRequest struct {
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	UserID         string `json:"userId"`
	SecurityAnswer string `json:"securityAnswer"`
	NewPassword    string `json:"newPassword"`
}

func (h *Handler) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "signup", errPayload)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), auth.SignupInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		h.writeError(c, "signup", err)
		return
	}

	h.logger.Infow("user signed up", "userId", result.User.ID)
	c.JSON(http.StatusCreated, newAuthResponse("User registered successfully", result))
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "login", errPayload)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, newAuthResponse("Logged in successfully", result))
}

func (h *Handler) handleGetUser(c *gin.Context) {
	user, err := h.authService.GetSelf(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, "fetching user data", err)
		return
	}

	c.JSON(http.StatusOK, userView(*user))
}

func (h *Handler) handleUpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "updating preferences", errPayload)
		return
	}

	update := models.PreferencesUpdate{
		DefaultFilterStatus:   req.DefaultFilterStatus,
		DefaultFilterPriority: req.DefaultFilterPriority,
		DefaultSortOption:     req.DefaultSortOption,
	}

	prefs, err := h.authService.UpdatePreferences(c.Request.Context(), currentUserID(c), update)
	if err != nil {
		h.writeError(c, "updating preferences", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Preferences updated successfully.",
		"user":    preferencesView(*prefs),
	})
}

func (h *Handler) handleSetSecurityQuestion(c *gin.Context) {
	var req securityQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "setting security question", errPayload)
		return
	}

	err := h.authService.SetSecurityQuestion(c.Request.Context(), currentUserID(c), req.SecurityQuestion, req.SecurityAnswer)
	if err != nil {
		h.writeError(c, "setting security question", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Security question and answer set successfully."})
}

func (h *Handler) handleForgotPasswordRequest(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "password reset request", errPayload)
		return
	}

	challenge, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, "password reset request", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"securityQuestion": challenge.SecurityQuestion,
		"userId":           challenge.UserID,
	})
}

func (h *Handler) handleResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "password reset", errPayload)
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), auth.ResetInput{
		UserID:         req.UserID,
		SecurityAnswer: req.SecurityAnswer,
		NewPassword:    req.NewPassword,
	})
	if err != nil {
		h.writeError(c, "password reset", err)
		return
	}

	h.logger.Infow("password reset via security question", "userId", req.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully."})
}

func newAuthResponse(message string, result *auth.AuthResult) gin.H {
	return gin.H{
		"message":   message,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt.Format(time.RFC3339),
	}
}

func userView(user models.User) gin.H {
	view := gin.H{
		"_id":                   user.ID,
		"username":              user.Username,
		"email":                 user.Email,
		"defaultFilterStatus":   user.DefaultFilterStatus,
		"defaultFilterPriority": user.DefaultFilterPriority,
		"defaultSortOption":     user.DefaultSortOption,
		"createdAt":             user.CreatedAt.Format(time.RFC3339),
		"updatedAt":             user.UpdatedAt.Format(time.RFC3339),
	}
	if user.SecurityQuestion != "" {
		view["securityQuestion"] = user.SecurityQuestion
	}
	return view
}

func preferencesView(prefs models.Preferences) gin.H {
	return gin.H{
		"defaultFilterStatus":   prefs.DefaultFilterStatus,
		"defaultFilterPriority": prefs.DefaultFilterPriority,
		"defaultSortOption":     prefs.DefaultSortOption,
	}
}
