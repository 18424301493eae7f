package domain

import "errors"

var (
	ErrTodoNotFound     = errors.New("Todo not found")
	ErrTodoNotCompleted = errors.New("Todo must be completed to be deleted")
)

type Todo struct {
	ID        string         `json:"id" dynamodbav:"id"`
	Title     string         `json:"title" dynamodbav:"title"`
	Completed bool           `json:"completed" dynamodbav:"completed"`
	Metadata  map[string]any `json:"metadata" dynamodbav:"metadata"`
}

// TodoPatch lists the fields of a partial update. Nil fields are left untouched.
type TodoPatch struct {
	ID        string
	Title     *string
	Completed *bool
	Metadata  map[string]any
	// HasMetadata distinguishes an explicit empty object from an absent field.
	HasMetadata bool
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && !p.HasMetadata
}

// Apply merges the patch into t and returns the result.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}

	if p.Completed != nil {
		t.Completed = *p.Completed
	}

	if p.HasMetadata {
		t.Metadata = p.Metadata
	}

	return t
}

func (t *Todo) CanBeDeleted() bool {
	return t.Completed
}
