package telemetry

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstants(t *testing.T) {
	// CLI events
	assert.Equal(t, "app_started", EventAppStarted)
	assert.Equal(t, "cli_command_executed", EventCLICommandExecuted)
	assert.Equal(t, "cli_error_occurred", EventCLIErrorOccurred)
	assert.Equal(t, "settings_changed", EventSettingsChanged)

	// Study events
	assert.Equal(t, "study_session_ended", EventSessionEnded)
	assert.Equal(t, "topic_completed", EventTopicCompleted)
	assert.Equal(t, "pyq_solved", EventPyqSolved)
	assert.Equal(t, "pyq_catalog_imported", EventCatalogImported)
	assert.Equal(t, "pyq_papers_downloaded", EventPapersDownloaded)
	assert.Equal(t, "data_exported", EventDataExported)
	assert.Equal(t, "data_imported", EventDataImported)
}

func TestBaseProperties(t *testing.T) {
	props := baseProperties()

	assert.Equal(t, runtime.GOOS, props["os"])
	assert.Equal(t, runtime.GOARCH, props["arch"])
	assert.Contains(t, props, "version")
	assert.Contains(t, props, "dev_build")
}
