package repository_test

import (
	"context"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	. "todoapi/pkg/test"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/pkg/test/factory"
)

type TodoRepositoryTestSuite struct {
	suite.Suite
	TodoRepo port.TodoRepository
}

var ctx = context.Background()

func (s *TodoRepositoryTestSuite) SetupTest() {
	s.TodoRepo = SetupTest(s.T()).Repo
}

func TestTodoRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositoryTestSuite))
}

func (s *TodoRepositoryTestSuite) TestRepository_GetByID_NotFound() {
	_, err := s.TodoRepo.GetByID(ctx, "non-existent-id")

	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoRepositoryTestSuite) TestRepository_Put_ThenGet() {
	todo := factory.NewTodo(map[string]any{"Title": "Sample Todo", "Completed": false})
	todo.Metadata = map[string]any{"tags": []any{"home"}, "priority": int64(2)}

	err := s.TodoRepo.Put(ctx, todo)
	Expect(err).To(BeNil())

	found, err := s.TodoRepo.GetByID(ctx, todo.ID)

	Expect(err).To(BeNil())
	Expect(found).To(Equal(todo))
}

func (s *TodoRepositoryTestSuite) TestRepository_Put_Overwrites() {
	todo := factory.NewTodo(map[string]any{"Title": "First"})
	s.TodoRepo.Put(ctx, todo)

	todo.Title = "Second"
	err := s.TodoRepo.Put(ctx, todo)
	Expect(err).To(BeNil())

	found, _ := s.TodoRepo.GetByID(ctx, todo.ID)
	Expect(found.Title).To(Equal("Second"))
}

func (s *TodoRepositoryTestSuite) TestRepository_Update_PartialFields() {
	todo := factory.NewTodo(map[string]any{"Title": "Sample Todo", "Completed": false})
	todo.Metadata = map[string]any{"priority": "low"}
	s.TodoRepo.Put(ctx, todo)

	completed := true
	updated, err := s.TodoRepo.Update(ctx, domain.TodoPatch{ID: todo.ID, Completed: &completed})

	Expect(err).To(BeNil())
	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Title).To(Equal("Sample Todo"))
	Expect(updated.Metadata).To(HaveKeyWithValue("priority", "low"))

	stored, _ := s.TodoRepo.GetByID(ctx, todo.ID)
	Expect(stored).To(Equal(updated))
}

func (s *TodoRepositoryTestSuite) TestRepository_Update_NotFound() {
	completed := true
	_, err := s.TodoRepo.Update(ctx, domain.TodoPatch{ID: "missing", Completed: &completed})

	Expect(err).To(MatchError(domain.ErrTodoNotFound))

	_, err = s.TodoRepo.GetByID(ctx, "missing")
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoRepositoryTestSuite) TestRepository_DeleteCompleted_Success() {
	todo := factory.NewTodo(map[string]any{"Title": "Done", "Completed": true})
	s.TodoRepo.Put(ctx, todo)

	err := s.TodoRepo.DeleteCompleted(ctx, todo.ID)
	Expect(err).To(BeNil())

	_, err = s.TodoRepo.GetByID(ctx, todo.ID)
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}

func (s *TodoRepositoryTestSuite) TestRepository_DeleteCompleted_NotCompleted() {
	todo := factory.NewTodo(map[string]any{"Title": "Pending", "Completed": false})
	s.TodoRepo.Put(ctx, todo)

	err := s.TodoRepo.DeleteCompleted(ctx, todo.ID)
	Expect(err).To(MatchError(domain.ErrTodoNotCompleted))

	found, err := s.TodoRepo.GetByID(ctx, todo.ID)
	Expect(err).To(BeNil())
	Expect(found.ID).To(Equal(todo.ID))
}

func (s *TodoRepositoryTestSuite) TestRepository_DeleteCompleted_Missing() {
	err := s.TodoRepo.DeleteCompleted(ctx, "missing")

	assert.ErrorIs(s.T(), err, domain.ErrTodoNotCompleted)
}

func (s *TodoRepositoryTestSuite) TestRepository_DeleteCompleted_Concurrent() {
	todo := factory.NewTodo(map[string]any{"Title": "Done", "Completed": true})
	s.TodoRepo.Put(ctx, todo)

	var wg sync.WaitGroup
	errs := make([]error, 8)

	for i := range errs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			errs[i] = s.TodoRepo.DeleteCompleted(ctx, todo.ID)
		}(i)
	}

	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}

	assert.LessOrEqual(s.T(), succeeded, 1)

	_, err := s.TodoRepo.GetByID(ctx, todo.ID)
	Expect(err).To(MatchError(domain.ErrTodoNotFound))
}
