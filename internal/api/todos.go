package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wuwenbin0122/taskpad/internal/models"
	"github.com/wuwenbin0122/taskpad/internal/todos"
)

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
}

func (h *Handler) handleCreateTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "creating to-do", errPayload)
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), currentUserID(c), todos.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeError(c, "creating to-do", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "To-Do created successfully!", "todo": todoView(*todo)})
}

// handleListTodos accepts ?completed=true|false, ?priority=Low|Medium|High and ?sort=<option>.
func (h *Handler) handleListTodos(c *gin.Context) {
	var filter models.TodoFilter
	if raw, ok := c.GetQuery("completed"); ok {
		completed := raw == "true"
		filter.Completed = &completed
	}
	filter.Priority = models.Priority(c.Query("priority"))
	filter.Sort = models.ParseSortOption(c.Query("sort"))

	items, err := h.todoService.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		h.writeError(c, "listing to-dos", err)
		return
	}

	views := make([]gin.H, 0, len(items))
	for _, item := range items {
		views = append(views, todoView(item))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) handleUpdateTodo(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, "updating to-do", errPayload)
		return
	}

	todo, err := h.todoService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), todos.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeError(c, "updating to-do", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "To-Do updated successfully!", "todo": todoView(*todo)})
}

func (h *Handler) handleDeleteTodo(c *gin.Context) {
	if err := h.todoService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.writeError(c, "deleting to-do", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "To-Do deleted successfully!"})
}

func todoView(todo models.Todo) gin.H {
	return gin.H{
		"_id":         todo.ID,
		"user":        todo.UserID,
		"title":       todo.Title,
		"description": todo.Description,
		"completed":   todo.Completed,
		"priority":    todo.Priority,
		"createdAt":   todo.CreatedAt.Format(time.RFC3339Nano),
	}
}
