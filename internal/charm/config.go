// ABOUTME: Configuration for the Charm KV snapshot backend
// ABOUTME: Server host, write-through sync and staleness threshold

package charm

import (
	"time"
)

// Config holds charm sync configuration.
type Config struct {
	// Host is the charm server (default: charm.2389.dev)
	Host string `yaml:"host"`

	// AutoSync pushes to the server after every write (default: true)
	AutoSync bool `yaml:"auto_sync"`

	// StaleThreshold forces a sync before reads when the last sync is older.
	// Zero disables the check.
	StaleThreshold time.Duration `yaml:"stale_threshold"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "charm.2389.dev",
		AutoSync:       true,
		StaleThreshold: 10 * time.Minute,
	}
}
