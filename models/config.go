// Package models defines the crawl-signal and verdict data structures.
package models

import "time"

// AuditConfig holds runtime configuration for audit and crawl runs.
// All values come from CLI flags, not external config files.
type AuditConfig struct {
	URLs      []string
	Model     string
	Timeout   time.Duration
	MaxLinks  int
	MaxAge    time.Duration
	OutputDir string
	DryRun    bool
}
