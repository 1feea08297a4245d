package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 1.0, cfg.Download.RequestsPerSecond)
	assert.Zero(t, cfg.Study.SyllabusTopics)
	assert.True(t, strings.HasSuffix(cfg.BaseDir, "gatewise"))
}

func TestLoad_FromEnv(t *testing.T) {
	home := filepath.Join(t.TempDir(), "gw")
	t.Setenv("GATEWISE_HOME", home)
	t.Setenv("GATEWISE_STORAGE", "File")
	t.Setenv("GATEWISE_DOWNLOAD_RPS", "2.5")
	t.Setenv("GATEWISE_SYLLABUS_TOPICS", "64")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, home, cfg.BaseDir)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 2.5, cfg.Download.RequestsPerSecond)
	assert.Equal(t, 64, cfg.Study.SyllabusTopics)

	_, err = os.Stat(GetPaths(cfg).Logs)
	assert.NoError(t, err, "log directory is created")
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown backend", "GATEWISE_STORAGE", "postgres"},
		{"non-numeric rate", "GATEWISE_DOWNLOAD_RPS", "fast"},
		{"negative rate", "GATEWISE_DOWNLOAD_RPS", "-1"},
		{"non-numeric topics", "GATEWISE_SYLLABUS_TOPICS", "many"},
		{"negative topics", "GATEWISE_SYLLABUS_TOPICS", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GATEWISE_HOME", t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestGetPaths(t *testing.T) {
	cfg := &Config{BaseDir: "/data/gatewise"}

	paths := GetPaths(cfg)

	assert.Equal(t, filepath.Join("/data/gatewise", "gatewise.db"), paths.Database)
	assert.Equal(t, filepath.Join("/data/gatewise", "documents"), paths.Documents)
	assert.Equal(t, filepath.Join("/data/gatewise", "papers"), paths.Papers)
	assert.Equal(t, filepath.Join("/data/gatewise", "logs"), paths.Logs)
}
