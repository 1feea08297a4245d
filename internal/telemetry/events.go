package telemetry

import (
	"runtime"

	"github.com/asteroid-belt/gatewise/pkg/version"
)

// Event names - CLI
const (
	EventAppStarted         = "app_started"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventSettingsChanged    = "settings_changed"
)

// Event names - Study
const (
	EventSessionEnded     = "study_session_ended"
	EventTopicCompleted   = "topic_completed"
	EventPyqSolved        = "pyq_solved"
	EventCatalogImported  = "pyq_catalog_imported"
	EventPapersDownloaded = "pyq_papers_downloaded"
	EventDataExported     = "data_exported"
	EventDataImported     = "data_imported"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":        runtime.GOOS,
		"arch":      runtime.GOARCH,
		"version":   version.Short(),
		"dev_build": version.IsDevBuild(),
	}
}

// --- CLI Tracking Methods ---

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(storageBackend string, hasBranch bool) {
	props := baseProperties()
	props["storage_backend"] = storageBackend
	props["has_branch"] = hasBranch
	c.Track(EventAppStarted, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks CLI errors.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackSettingsChanged tracks settings changes.
func (c *posthogClient) TrackSettingsChanged(settingName string) {
	props := baseProperties()
	props["setting_name"] = settingName
	c.Track(EventSettingsChanged, props)
}

// --- Study Tracking Methods ---

// TrackSessionEnded tracks a credited study session.
func (c *posthogClient) TrackSessionEnded(durationMin, currentStreak int) {
	props := baseProperties()
	props["duration_min"] = durationMin
	props["current_streak"] = currentStreak
	c.Track(EventSessionEnded, props)
}

// TrackTopicCompleted tracks a topic being marked completed.
func (c *posthogClient) TrackTopicCompleted(branch string, completedTopics int) {
	props := baseProperties()
	props["branch"] = branch
	props["completed_topics"] = completedTopics
	c.Track(EventTopicCompleted, props)
}

// TrackPyqSolved tracks a paper attempt. verdict is correct, wrong or unknown.
func (c *posthogClient) TrackPyqSolved(branch string, verdict string) {
	props := baseProperties()
	props["branch"] = branch
	props["verdict"] = verdict
	c.Track(EventPyqSolved, props)
}

// TrackCatalogImported tracks a YAML catalog import.
func (c *posthogClient) TrackCatalogImported(paperCount int) {
	props := baseProperties()
	props["paper_count"] = paperCount
	c.Track(EventCatalogImported, props)
}

// TrackPapersDownloaded tracks one run of the downloader.
func (c *posthogClient) TrackPapersDownloaded(succeeded, failed int, durationMs int64) {
	props := baseProperties()
	props["succeeded"] = succeeded
	props["failed"] = failed
	props["duration_ms"] = durationMs
	c.Track(EventPapersDownloaded, props)
}

// TrackDataExported tracks a backup export.
func (c *posthogClient) TrackDataExported(store string, toClipboard bool) {
	props := baseProperties()
	props["store"] = store
	props["to_clipboard"] = toClipboard
	c.Track(EventDataExported, props)
}

// TrackDataImported tracks a backup import attempt.
func (c *posthogClient) TrackDataImported(store string, applied bool) {
	props := baseProperties()
	props["store"] = store
	props["applied"] = applied
	c.Track(EventDataImported, props)
}

// --- noopClient implementations (no-ops) ---

func (c *noopClient) TrackAppStarted(storageBackend string, hasBranch bool)                       {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {}
func (c *noopClient) TrackCLIError(commandName, errorType string)                                 {}
func (c *noopClient) TrackSettingsChanged(settingName string)                                     {}
func (c *noopClient) TrackSessionEnded(durationMin, currentStreak int)                            {}
func (c *noopClient) TrackTopicCompleted(branch string, completedTopics int)                      {}
func (c *noopClient) TrackPyqSolved(branch string, verdict string)                                {}
func (c *noopClient) TrackCatalogImported(paperCount int)                                         {}
func (c *noopClient) TrackPapersDownloaded(succeeded, failed int, durationMs int64)               {}
func (c *noopClient) TrackDataExported(store string, toClipboard bool)                            {}
func (c *noopClient) TrackDataImported(store string, applied bool)                                {}
