package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Expand ExpandConfig `json:"expand"`
}

type ExpandConfig struct {
	// File Imports
	MaxImportFileSize         int64 `json:"max_import_file_size"`         // Default: 10 * 1024 * 1024 (10MB)
	BinaryDetectionSampleSize int   `json:"binary_detection_sample_size"` // Default: 8192

	// Command Execution
	MaxCommandOutputSize    int64 `json:"max_command_output_size"`    // Default: 1 * 1024 * 1024 (1MB)
	CommandTimeoutSeconds   int   `json:"command_timeout_seconds"`    // Default: 30
	CommandBinarySampleSize int   `json:"command_binary_sample_size"` // Default: 1024
	GracefulShutdownMs      int   `json:"graceful_shutdown_ms"`       // Default: 2000

	// Concurrency
	MaxConcurrentResolves int `json:"max_concurrent_resolves"` // Default: 10

	// Glob Budgeting
	ContextWindowTokens int `json:"context_window_tokens"` // Default: 128000

	// Remote Imports
	URLFetchTimeoutSeconds int `json:"url_fetch_timeout_seconds"` // Default: 30
	RemoteCacheTTLSeconds  int `json:"remote_cache_ttl_seconds"`  // Default: 900 (15 minutes)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Expand: ExpandConfig{
			MaxImportFileSize:         10 * 1024 * 1024,
			BinaryDetectionSampleSize: 8192,
			MaxCommandOutputSize:      1 * 1024 * 1024,
			CommandTimeoutSeconds:     30,
			CommandBinarySampleSize:   1024,
			GracefulShutdownMs:        2000,
			MaxConcurrentResolves:     10,
			ContextWindowTokens:       128000,
			URLFetchTimeoutSeconds:    30,
			RemoteCacheTTLSeconds:     900,
		},
	}
}
