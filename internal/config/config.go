// ABOUTME: Application configuration: defaults, YAML file, then environment.
// ABOUTME: Environment variables use the COURSETRACK_ prefix.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/harper/coursetrack/internal/charm"
	"github.com/harper/coursetrack/internal/db"
)

const (
	ModeRemote = "remote"
	ModeLocal  = "local"

	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "coursetrack"

type Config struct {
	// Mode selects the primary adapter: remote API with local fallback, or local only.
	Mode           string        `yaml:"mode" envconfig:"MODE" validate:"oneof=remote local"`
	APIBaseURL     string        `yaml:"api_base_url" envconfig:"API_BASE_URL" validate:"omitempty,url"`
	Endpoint       string        `yaml:"endpoint" envconfig:"ENDPOINT"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gte=0"`
	AutoPush       bool          `yaml:"auto_push" envconfig:"AUTO_PUSH"`

	Backend     string `yaml:"backend" envconfig:"BACKEND" validate:"oneof=badger sqlite charm memory"`
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR"`
	SnapshotKey string `yaml:"snapshot_key" envconfig:"SNAPSHOT_KEY" validate:"required"`

	CharmHost           string        `yaml:"charm_host" envconfig:"CHARM_HOST"`
	CharmAutoSync       bool          `yaml:"charm_auto_sync" envconfig:"CHARM_AUTO_SYNC"`
	CharmStaleThreshold time.Duration `yaml:"charm_stale_threshold" envconfig:"CHARM_STALE_THRESHOLD"`

	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT" validate:"oneof=console json"`

	NotifyDuration time.Duration `yaml:"notify_duration" envconfig:"NOTIFY_DURATION" validate:"gte=0"`
	DefaultSort    string        `yaml:"default_sort" envconfig:"DEFAULT_SORT" validate:"omitempty,oneof=updated_desc alpha_asc progress_desc progress_asc favorites_first"`

	S3Bucket    string `yaml:"s3_bucket" envconfig:"S3_BUCKET"`
	S3Region    string `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Endpoint  string `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT"`
	S3AccessKey string `yaml:"s3_access_key" envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `yaml:"s3_secret_key" envconfig:"S3_SECRET_KEY"`
	S3Prefix    string `yaml:"s3_prefix" envconfig:"S3_PREFIX"`
}

func Default() *Config {
	charmDefaults := charm.DefaultConfig()
	return &Config{
		Mode:                ModeRemote,
		APIBaseURL:          "https://6943a43b69b12460f31568b3.mockapi.io",
		Endpoint:            "courses",
		RequestTimeout:      10 * time.Second,
		AutoPush:            true,
		Backend:             BackendBadger,
		DataDir:             db.DataDir(),
		SnapshotKey:         "courses",
		CharmHost:           charmDefaults.Host,
		CharmAutoSync:       charmDefaults.AutoSync,
		CharmStaleThreshold: charmDefaults.StaleThreshold,
		LogLevel:            "warn",
		LogFormat:           "console",
		NotifyDuration:      3 * time.Second,
		DefaultSort:         "updated_desc",
		S3Region:            "us-east-1",
		S3Prefix:            "coursetrack/",
	}
}

// Dir returns the configuration directory path.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "coursetrack")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load layers the file at path (if it exists) and the environment over the
// defaults. An empty path means Path().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path) //nolint:gosec // Config path is chosen by the user
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Mode == ModeRemote && c.APIBaseURL == "" {
		return errors.New("invalid config: api_base_url is required in remote mode")
	}
	return nil
}

// S3Enabled reports whether backups to object storage are configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
