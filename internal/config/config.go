// Package config handles application configuration management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all gatewise data ($XDG_DATA_HOME/gatewise)
	BaseDir string

	Storage StorageConfig

	Download DownloadConfig

	Study StudyConfig
}

// StorageConfig selects where the stores persist their documents.
type StorageConfig struct {
	// Backend is one of sqlite, file or memory.
	Backend string
	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// DownloadConfig paces paper downloads.
type DownloadConfig struct {
	RequestsPerSecond float64
	Timeout           time.Duration
}

// StudyConfig describes the syllabus being tracked.
type StudyConfig struct {
	// SyllabusTopics is the number of topics in the branch syllabus. Zero
	// measures progress against the topics tracked so far.
	SyllabusTopics int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home := os.Getenv("GATEWISE_HOME"); home != "" {
		cfg.BaseDir = home
	}

	if backend := os.Getenv("GATEWISE_STORAGE"); backend != "" {
		backend = strings.ToLower(strings.TrimSpace(backend))
		switch backend {
		case BackendSQLite, BackendFile, BackendMemory:
			cfg.Storage.Backend = backend
		default:
			return nil, fmt.Errorf("GATEWISE_STORAGE: unknown backend %q (want sqlite, file or memory)", backend)
		}
	}

	if rps := os.Getenv("GATEWISE_DOWNLOAD_RPS"); rps != "" {
		v, err := strconv.ParseFloat(rps, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("GATEWISE_DOWNLOAD_RPS: invalid rate %q", rps)
		}
		cfg.Download.RequestsPerSecond = v
	}

	if topics := os.Getenv("GATEWISE_SYLLABUS_TOPICS"); topics != "" {
		v, err := strconv.Atoi(topics)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("GATEWISE_SYLLABUS_TOPICS: invalid topic count %q", topics)
		}
		cfg.Study.SyllabusTopics = v
	}

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	paths := GetPaths(cfg)
	dirs := []string{
		cfg.BaseDir,
		paths.Logs,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
