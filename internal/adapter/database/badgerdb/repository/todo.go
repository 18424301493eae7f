package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"todoapi/internal/adapter/database/badgerdb"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const keyPrefix = "todo#"

// TodoRepository keeps todos in badger. Every write runs in its own
// read-write transaction, so the conditions are checked atomically.
type TodoRepository struct {
	db        *badgerdb.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *badgerdb.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func todoKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (tr *TodoRepository) observe(ctx context.Context, operation string, id string, fn func() error) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", map[string]interface{}{
		"db.system": tr.db.Driver,
		"todo.id":   id,
	})
	defer span.End()

	startTime := time.Now()
	err := fn()

	switch {
	case err == nil:
		span.SetStatus("ok", "")
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), nil)
	case errors.Is(err, domain.ErrTodoNotFound), errors.Is(err, domain.ErrTodoNotCompleted):
		span.SetAttributes(map[string]interface{}{"todo.outcome": err.Error()})
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), nil)
	default:
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), err)
	}

	return err
}

func readTodo(txn *badger.Txn, id string) (domain.Todo, error) {
	item, err := txn.Get(todoKey(id))

	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		return domain.Todo{}, err
	}

	var todo domain.Todo

	err = item.Value(func(val []byte) error {
		decoder := json.NewDecoder(bytes.NewReader(val))
		decoder.UseNumber()
		return decoder.Decode(&todo)
	})

	if err != nil {
		return domain.Todo{}, fmt.Errorf("decode todo %s: %w", id, err)
	}

	todo.Metadata = domain.NormalizeMetadata(todo.Metadata)

	return todo, nil
}

func writeTodo(txn *badger.Txn, todo domain.Todo) error {
	data, err := json.Marshal(todo)

	if err != nil {
		return fmt.Errorf("encode todo %s: %w", todo.ID, err)
	}

	return txn.Set(todoKey(todo.ID), data)
}

func (tr *TodoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	var todo domain.Todo

	err := tr.observe(ctx, "GetByID", id, func() error {
		return tr.db.View(func(txn *badger.Txn) error {
			var err error
			todo, err = readTodo(txn, id)
			return err
		})
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Put(ctx context.Context, todo domain.Todo) error {
	return tr.observe(ctx, "Put", todo.ID, func() error {
		return tr.db.Update(func(txn *badger.Txn) error {
			return writeTodo(txn, todo)
		})
	})
}

func (tr *TodoRepository) Update(ctx context.Context, patch domain.TodoPatch) (domain.Todo, error) {
	var updated domain.Todo

	err := tr.observe(ctx, "Update", patch.ID, func() error {
		return tr.db.Update(func(txn *badger.Txn) error {
			current, err := readTodo(txn, patch.ID)

			if err != nil {
				return err
			}

			updated = patch.Apply(current)

			return writeTodo(txn, updated)
		})
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return updated, nil
}

// DeleteCompleted treats a missing item like an uncompleted one: the
// completed = true condition does not hold for it.
func (tr *TodoRepository) DeleteCompleted(ctx context.Context, id string) error {
	return tr.observe(ctx, "DeleteCompleted", id, func() error {
		return tr.db.Update(func(txn *badger.Txn) error {
			current, err := readTodo(txn, id)

			if errors.Is(err, domain.ErrTodoNotFound) {
				return domain.ErrTodoNotCompleted
			}

			if err != nil {
				return err
			}

			if !current.CanBeDeleted() {
				return domain.ErrTodoNotCompleted
			}

			return txn.Delete(todoKey(id))
		})
	})
}
