package telemetry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/pkg/config"
)

func TestNewContainer_Disabled(t *testing.T) {
	cfg := config.GetDefaultConfig().Telemetry
	cfg.Enabled = false

	container, err := NewContainer(context.Background(), cfg, "test", slog.Default())
	require.NoError(t, err)

	assert.Nil(t, container.MetricsServer)
	assert.NotNil(t, container.AppMetrics)
	assert.NotNil(t, container.NewTelemetryProbe(nil))

	assert.NoError(t, container.Shutdown(context.Background()))
}
