package handler

import (
	"context"
	"errors"
	"net/http"

	. "todoapi/internal/adapter/http/helper"
	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	. "todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TodoHandler keeps no state between requests; every call maps to one store call.
type TodoHandler struct {
	svc     port.TodoService
	Logger  *config.Logger
	metrics *telemetry.AppMetrics
}

func NewTodoHandler(todoService port.TodoService, logger *config.Logger, metrics *telemetry.AppMetrics) *TodoHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &TodoHandler{
		svc:     todoService,
		Logger:  logger,
		metrics: metrics,
	}
}

func (t *TodoHandler) startSpan(c *gin.Context, operation string) (context.Context, trace.Span) {
	return CreateChildSpan(c.Request.Context(), "handler.todo."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
}

func (t *TodoHandler) record(ctx context.Context, operation, outcome string) {
	if t.metrics != nil {
		t.metrics.RecordTodoOperation(ctx, operation, outcome)
	}
}

// sendError translates validation, domain and store errors into a response.
func (t *TodoHandler) sendError(c *gin.Context, ctx context.Context, span trace.Span, operation string, err error) {
	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		t.record(ctx, operation, "invalid")
		SendBadRequestError(c, validationErr.Error())
	case errors.Is(err, domain.ErrTodoNotFound):
		t.record(ctx, operation, "not_found")
		SendNotFoundError(c, domain.ErrTodoNotFound.Error())
	case errors.Is(err, domain.ErrTodoNotCompleted):
		t.record(ctx, operation, "not_completed")
		SendBadRequestError(c, domain.ErrTodoNotCompleted.Error())
	default:
		t.record(ctx, operation, "error")
		AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Todo store operation failed",
			zap.String("operation", operation),
			zap.String("todo_id", c.Param("id")),
			zap.Error(err),
		)

		SendInternalError(c, err.Error())
	}
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "CreateTodo")
	defer span.End()

	body, err := c.GetRawData()

	if err != nil {
		SendBadRequestError(c, "Invalid request body")
		return
	}

	params, err := validation.Decode[request.CreateTodoRequest](body, validation.CreateMode)

	if err != nil {
		t.sendError(c, ctx, span, "create", err)
		return
	}

	todo, err := t.svc.Create(ctx, params.ToDomain())

	if err != nil {
		t.sendError(c, ctx, span, "create", err)
		return
	}

	span.SetAttributes(attribute.String("todo.id", todo.ID))
	t.record(ctx, "create", "success")

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "GetTodo")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("todo.id", id))

	todo, err := t.svc.GetByID(ctx, id)

	if err != nil {
		t.sendError(c, ctx, span, "get", err)
		return
	}

	t.record(ctx, "get", "success")

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "UpdateTodo")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("todo.id", id))

	body, err := c.GetRawData()

	if err != nil {
		SendBadRequestError(c, "Invalid request body")
		return
	}

	params, err := validation.Decode[request.UpdateTodoRequest](body, validation.UpdateMode)

	if err != nil {
		t.sendError(c, ctx, span, "update", err)
		return
	}

	todo, err := t.svc.Update(ctx, params.ToPatch(id))

	if err != nil {
		t.sendError(c, ctx, span, "update", err)
		return
	}

	t.record(ctx, "update", "success")

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx, span := t.startSpan(c, "DeleteTodo")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("todo.id", id))

	if err := t.svc.Delete(ctx, id); err != nil {
		t.sendError(c, ctx, span, "delete", err)
		return
	}

	t.record(ctx, "delete", "success")

	SendNoContent(c)
}
