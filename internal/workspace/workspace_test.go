package workspace

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/gatewise/internal/config"
	"github.com/asteroid-belt/gatewise/internal/models"
	"github.com/asteroid-belt/gatewise/internal/storage"
	"github.com/asteroid-belt/gatewise/internal/testutil"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.Storage.Backend = backend
	return cfg
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			ws, err := Open(cfg)
			require.NoError(t, err)
			ws.Progress.SetCurrentBranch("CS")
			ws.Progress.MarkTopicCompleted("cs-dbms")
			ws.Pyq.ToggleBookmark("2024-CS-CS1")
			ws.Settings.SetTheme(models.ThemeDark)
			require.NoError(t, ws.Close())

			reopened, err := Open(cfg)
			require.NoError(t, err)
			defer func() { _ = reopened.Close() }()

			assert.Equal(t, "CS", reopened.Progress.CurrentBranch())
			assert.Equal(t, 1, reopened.Progress.TotalTopicsCompleted())
			st, ok := reopened.Pyq.UserState("2024-CS-CS1")
			require.True(t, ok)
			assert.True(t, st.Bookmarked)
			assert.Equal(t, models.ThemeDark, reopened.Settings.Theme())
		})
	}
}

func TestOpen_MemoryBackendStartsEmpty(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)

	ws, err := Open(cfg)
	require.NoError(t, err)
	ws.Progress.SetCurrentBranch("EE")
	require.NoError(t, ws.Close())

	again, err := Open(cfg)
	require.NoError(t, err)
	assert.Empty(t, again.Progress.CurrentBranch())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(testConfig(t, "etcd"))
	assert.Error(t, err)
}

func TestNew_PassesClockAndLogger(t *testing.T) {
	now := time.Date(2026, 4, 1, 7, 0, 0, 0, time.UTC)
	logger := &testutil.RecordingLogger{}

	ws, err := New(testConfig(t, config.BackendMemory), storage.NewMemory(),
		WithClock(testutil.NewClock(now).Now), WithLogger(logger))
	require.NoError(t, err)

	ws.Progress.UpdateTopicProgress("t", models.ProgressUpdate{})
	p, _ := ws.Progress.TopicProgress("t")
	assert.True(t, p.LastStudied.Equal(now))

	ws.Pyq.ImportData("garbage")
	assert.Equal(t, 1, logger.Count())
}

func TestNew_SyllabusSizeFromConfig(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Study.SyllabusTopics = 20

	ws, err := New(cfg, storage.NewMemory())
	require.NoError(t, err)

	ws.Progress.MarkTopicCompleted("graphs")
	stats := ws.Progress.Stats()
	assert.Equal(t, 20, stats.TotalTopics)
	assert.Equal(t, 5, stats.TotalProgress)
}

func TestNew_BackendFailure(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Close())

	_, err := New(testConfig(t, config.BackendMemory), kv)
	assert.True(t, errors.Is(err, storage.ErrClosed))
}

func TestDownloader_RespectsCacheSetting(t *testing.T) {
	ws, err := New(testConfig(t, config.BackendMemory), storage.NewMemory())
	require.NoError(t, err)

	d, err := ws.Downloader(nil)
	require.NoError(t, err)
	assert.NotNil(t, d)

	ws.Settings.UpdatePyqSettings(models.PyqSettingsUpdate{CacheEnabled: models.Ptr(false)})
	_, err = ws.Downloader(nil)
	assert.ErrorIs(t, err, ErrCacheDisabled)
}
