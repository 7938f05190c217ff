package dto

import (
	"time"
)

// CreateTodoRequest is the JSON body for POST /todos.
type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"` // nil = absent, "" = explicit empty
}

// UpdateTodoRequest is the JSON body for PATCH /todos/:id. nil = do not change.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ListTodosQuery holds the query parameters of GET /todos.
// Search is an alias of Title; Title wins when both are set.
type ListTodosQuery struct {
	Search      string `form:"search"`
	Title       string `form:"title"`
	Description string `form:"description"`
	Completed   string `form:"completed" binding:"omitempty,oneof=true false"`
}

type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}
