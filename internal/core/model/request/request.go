package request

import "todoapi/internal/core/domain"

// CreateTodoRequest is the body of POST /todos. Completed is accepted but ignored.
type CreateTodoRequest struct {
	Title     *string        `json:"title" validate:"required,min=1"`
	Completed *bool          `json:"completed"`
	Metadata  map[string]any `json:"metadata"`
}

func (r CreateTodoRequest) ToDomain() domain.Todo {
	todo := domain.Todo{
		Metadata: domain.NormalizeMetadata(r.Metadata),
	}

	if r.Title != nil {
		todo.Title = *r.Title
	}

	return todo
}

// UpdateTodoRequest is the body of PUT /todos/:id. Completed must always be restated.
type UpdateTodoRequest struct {
	Title     *string        `json:"title" validate:"omitnil,min=1"`
	Completed *bool          `json:"completed" validate:"required"`
	Metadata  map[string]any `json:"metadata"`
}

func (r UpdateTodoRequest) ToPatch(id string) domain.TodoPatch {
	return domain.TodoPatch{
		ID:          id,
		Title:       r.Title,
		Completed:   r.Completed,
		Metadata:    domain.NormalizeMetadata(r.Metadata),
		HasMetadata: r.Metadata != nil,
	}
}
