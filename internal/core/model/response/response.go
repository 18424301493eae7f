package response

import "todoapi/internal/core/domain"

type TodoResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Completed bool           `json:"completed"`
	Metadata  map[string]any `json:"metadata"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	metadata := todo.Metadata

	if metadata == nil {
		metadata = map[string]any{}
	}

	return TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		Metadata:  metadata,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
