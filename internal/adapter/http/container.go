package http

import (
	"context"
	"fmt"
	"log/slog"

	"todoapi/internal/adapter/database/badgerdb"
	badgerrepo "todoapi/internal/adapter/database/badgerdb/repository"
	"todoapi/internal/adapter/database/dynamo"
	dynamorepo "todoapi/internal/adapter/database/dynamo/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService

	TodoHandler   *handler.TodoHandler
	HealthHandler *handler.HealthHandler

	closeStore func() error
}

// NewContainer selects the item store from configuration and wires the
// service and handlers on top of it.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.Logger, metrics *telemetry.AppMetrics, probe port.Telemetry) (*Container, error) {
	if probe == nil {
		probe = telemetry.NewOTELProbe(slog.Default(), metrics)
	}

	var (
		todoRepo   port.TodoRepository
		closeStore = func() error { return nil }
	)

	switch cfg.Store.Driver {
	case "dynamodb":
		db, err := dynamo.NewDB(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}

		todoRepo = dynamorepo.NewTodoRepository(db, probe)
	case "badger":
		db, err := badgerdb.NewDB(badgerdb.Options{
			Path:   cfg.Store.BadgerPath,
			Logger: logger.Logger.Logger,
		})
		if err != nil {
			return nil, err
		}

		todoRepo = badgerrepo.NewTodoRepository(db, probe)
		closeStore = db.Close
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	todoSvc := service.NewTodoService(todoRepo, probe)

	return &Container{
		TodoRepo:      todoRepo,
		TodoService:   todoSvc,
		TodoHandler:   handler.NewTodoHandler(todoSvc, logger, metrics),
		HealthHandler: handler.NewHealthHandler(cfg.Store.Driver),
		closeStore:    closeStore,
	}, nil
}

func (c *Container) Close() error {
	return c.closeStore()
}
