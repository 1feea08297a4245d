package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Storage: StorageConfig{
			Backend:     BackendSQLite,
			BusyTimeout: 5 * time.Second,
		},

		Download: DownloadConfig{
			RequestsPerSecond: 1,
			Timeout:           2 * time.Minute,
		},
	}
}
