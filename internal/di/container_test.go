package di_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"samarth/internal/config"
	"samarth/internal/di"
	"samarth/internal/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T, cfg *config.Config) *di.Container {
	t.Helper()
	cfg.Logging.Level = "error"
	c, cleanup, err := di.InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return c
}

func TestInitializeContainer_Memory(t *testing.T) {
	c := newContainer(t, config.Default(config.Development))

	assert.Nil(t, c.Tracer)
	assert.Nil(t, c.Watcher)
	assert.Nil(t, c.Backend.Writer)
	assert.False(t, c.Holder.Ready())

	snap, err := c.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, memory.SourceName, snap.Source())

	rec := httptest.NewRecorder()
	c.Router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp, err := c.Dispatcher.Ask(context.Background(), "Average rainfall in India")
	require.NoError(t, err)
	assert.Empty(t, resp.Values)
	assert.Contains(t, resp.Text, "758.89")
}

func TestInitializeContainer_SQLiteRoundTrip(t *testing.T) {
	cfg := config.Default(config.Development)
	cfg.Dataset.Source = config.SourceSQLite
	cfg.Dataset.DSN = filepath.Join(t.TempDir(), "samarth.db")
	c := newContainer(t, cfg)

	require.NotNil(t, c.Backend.Writer)
	require.NoError(t, c.Backend.Writer.Write(context.Background(), memory.MustSample()))

	snap, err := c.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Punjab", "Haryana", "Maharashtra"}, snap.RegionNames())
}

func TestInitializeContainer_FileWithWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	cfg := config.Default(config.Development)
	cfg.Dataset.Source = config.SourceFile
	cfg.Dataset.Path = path
	cfg.Dataset.Watch = true
	cfg.Tracing.Enabled = true
	c := newContainer(t, cfg)

	require.NotNil(t, c.Watcher)
	require.NotNil(t, c.Tracer)
	require.NoError(t, c.Backend.Writer.Write(context.Background(), memory.MustSample()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	snap, err := c.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
}

func TestInitializeContainer_LoadFailure(t *testing.T) {
	cfg := config.Default(config.Development)
	cfg.Dataset.Source = config.SourceFile
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.yaml")
	c := newContainer(t, cfg)

	_, err := c.LoadDataset(context.Background())
	require.Error(t, err)
	assert.False(t, c.Holder.Ready())
}
