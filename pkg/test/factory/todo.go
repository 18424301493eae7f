package factory

import (
	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"todoapi/internal/core/domain"
)

// TodoAttributes is the flat shape fabricator fills with fake values.
type TodoAttributes struct {
	Title     string
	Completed bool
}

// NewTodo builds a todo with a fresh id, fake attributes and empty metadata.
// Overrides are keyed by TodoAttributes field names.
func NewTodo(customData ...map[string]any) domain.Todo {
	instance := fab.New(TodoAttributes{})

	attrs := instance.Build(customData...)

	return domain.Todo{
		ID:        uuid.NewString(),
		Title:     attrs.Title,
		Completed: attrs.Completed,
		Metadata:  map[string]any{},
	}
}
