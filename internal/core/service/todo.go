package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const serviceName = "todo"

type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
	newID     func() string
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		telemetry: telemetry,
		newID:     uuid.NewString,
	}
}

var _ port.TodoService = (*TodoService)(nil)

// Create always stores a fresh id and completed=false, whatever the caller sent.
func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Create", nil)
	defer span.End()

	start := time.Now()

	metadata := todo.Metadata

	if metadata == nil {
		metadata = map[string]any{}
	}

	newTodo := domain.Todo{
		ID:        ts.newID(),
		Title:     todo.Title,
		Completed: false,
		Metadata:  metadata,
	}

	err := ts.repo.Put(ctx, newTodo)
	ts.record(ctx, "Create", newTodo.ID, start, err)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo.created", "todo", newTodo.ID, nil)

	return newTodo, nil
}

func (ts *TodoService) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "GetByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	start := time.Now()

	todo, err := ts.repo.GetByID(ctx, id)
	ts.record(ctx, "GetByID", id, start, err)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (ts *TodoService) Update(ctx context.Context, patch domain.TodoPatch) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Update", map[string]interface{}{
		"todo.id":           patch.ID,
		"todo.has_title":    patch.Title != nil,
		"todo.has_metadata": patch.HasMetadata,
	})
	defer span.End()

	start := time.Now()

	todo, err := ts.repo.Update(ctx, patch)
	ts.record(ctx, "Update", patch.ID, start, err)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo.updated", "todo", todo.ID, map[string]interface{}{
		"completed": todo.Completed,
	})

	return todo, nil
}

func (ts *TodoService) Delete(ctx context.Context, id string) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Delete", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	start := time.Now()

	err := ts.repo.DeleteCompleted(ctx, id)
	ts.record(ctx, "Delete", id, start, err)

	if err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo.deleted", "todo", id, nil)

	return nil
}

// record reports the outcome of an operation. Store failures are also
// recorded as errors; not-found and not-completed are normal outcomes.
func (ts *TodoService) record(ctx context.Context, operation string, id string, start time.Time, err error) {
	failure := ignoreExpected(err)

	ts.telemetry.RecordServiceOperation(ctx, serviceName, operation, time.Since(start), failure)

	if failure != nil {
		ts.telemetry.RecordError(ctx, serviceName+"."+operation, failure, map[string]interface{}{
			"todo.id": id,
		})
	}
}

// ignoreExpected hides the domain outcomes that are not failures of the service.
func ignoreExpected(err error) error {
	if errors.Is(err, domain.ErrTodoNotFound) || errors.Is(err, domain.ErrTodoNotCompleted) {
		return nil
	}

	return err
}
