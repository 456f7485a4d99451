package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ssargent/hybridrow/pkg/config"
)

func TestNewContainer(t *testing.T) {
	c := NewContainer()

	assert.Equal(t, config.DefaultConfig(), c.GetConfig())
	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetRegistry())
	assert.NotNil(t, c.GetMetrics())
	assert.NotNil(t, c.GetLayoutCache())
	assert.NoError(t, c.WriteMetrics())
}

func TestConfigure(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		c := NewContainer()
		before := c.GetLayoutCache()

		cfg := config.DefaultConfig()
		cfg.Logging.Level = "debug"
		cfg.Logging.Encoding = "console"
		require.NoError(t, c.Configure(cfg))

		assert.Same(t, cfg, c.GetConfig())
		assert.NotSame(t, before, c.GetLayoutCache())
		assert.True(t, c.GetLogger().Core().Enabled(zap.DebugLevel))
	})

	t.Run("invalid config", func(t *testing.T) {
		c := NewContainer()
		cfg := config.DefaultConfig()
		cfg.Logging.Level = "loud"

		assert.Error(t, c.Configure(cfg))
		assert.Equal(t, config.DefaultConfig(), c.GetConfig())
	})
}

func TestSetLogger(t *testing.T) {
	c := NewContainer()
	logger := zap.NewExample()
	c.SetLogger(logger)
	assert.Same(t, logger, c.GetLogger())
}

func TestWriteMetrics(t *testing.T) {
	c := NewContainer()
	cfg := config.DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "hybridrow.prom")
	require.NoError(t, c.Configure(cfg))

	c.GetMetrics().RecordCatalogOperation("list", nil)
	require.NoError(t, c.WriteMetrics())

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hybridrow_catalog_operations_total{operation="list",status="success"} 1`)
}
