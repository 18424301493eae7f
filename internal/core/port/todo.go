package port

import (
	"context"

	"todoapi/internal/core/domain"
)

// TodoRepository is the item store. Implementations must evaluate the
// conditions of Update and DeleteCompleted atomically with the write.
type TodoRepository interface {
	// GetByID returns domain.ErrTodoNotFound when no item has the key.
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	// Put writes the item unconditionally, overwriting any previous value.
	Put(ctx context.Context, todo domain.Todo) error
	// Update applies the patch to an existing item and returns the new record.
	// It returns domain.ErrTodoNotFound when the item does not exist.
	Update(ctx context.Context, patch domain.TodoPatch) (domain.Todo, error)
	// DeleteCompleted removes the item only if its completed flag is true.
	// It returns domain.ErrTodoNotCompleted when the condition fails.
	DeleteCompleted(ctx context.Context, id string) error
}

type TodoService interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	Update(ctx context.Context, patch domain.TodoPatch) (domain.Todo, error)
	Delete(ctx context.Context, id string) error
}
