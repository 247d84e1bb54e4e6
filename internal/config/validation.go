package config

import (
	"fmt"
	"strings"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.Expand.MaxImportFileSize < 1 {
		errs = append(errs, "expand.max_import_file_size must be >= 1")
	}
	if c.Expand.BinaryDetectionSampleSize < 1 {
		errs = append(errs, "expand.binary_detection_sample_size must be >= 1")
	}
	if c.Expand.MaxCommandOutputSize < 1 {
		errs = append(errs, "expand.max_command_output_size must be >= 1")
	}
	if c.Expand.CommandTimeoutSeconds < 1 {
		errs = append(errs, "expand.command_timeout_seconds must be >= 1")
	}
	if c.Expand.CommandBinarySampleSize < 1 {
		errs = append(errs, "expand.command_binary_sample_size must be >= 1")
	}
	if c.Expand.GracefulShutdownMs < 0 {
		errs = append(errs, "expand.graceful_shutdown_ms must be >= 0")
	}
	if c.Expand.MaxConcurrentResolves < 1 {
		errs = append(errs, "expand.max_concurrent_resolves must be >= 1")
	}
	if c.Expand.ContextWindowTokens < 1 {
		errs = append(errs, "expand.context_window_tokens must be >= 1")
	}
	if c.Expand.URLFetchTimeoutSeconds < 1 {
		errs = append(errs, "expand.url_fetch_timeout_seconds must be >= 1")
	}
	if c.Expand.RemoteCacheTTLSeconds < 0 {
		errs = append(errs, "expand.remote_cache_ttl_seconds must be >= 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
