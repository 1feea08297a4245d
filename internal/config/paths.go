package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database  string // SQLite document store
	Documents string // One JSON file per store for the file backend
	Papers    string // Downloaded paper cache
	Logs      string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database:  filepath.Join(cfg.BaseDir, "gatewise.db"),
		Documents: filepath.Join(cfg.BaseDir, "documents"),
		Papers:    filepath.Join(cfg.BaseDir, "papers"),
		Logs:      filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory ($XDG_DATA_HOME/gatewise).
func DefaultBaseDir() string {
	if xdg.DataHome == "" {
		return ".gatewise"
	}
	return filepath.Join(xdg.DataHome, "gatewise")
}
