// ABOUTME: Root command and shared wiring for every subcommand.
// ABOUTME: Builds config, logger, persistence adapters, store and presenter.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harper/coursetrack/internal/adapter"
	"github.com/harper/coursetrack/internal/charm"
	"github.com/harper/coursetrack/internal/config"
	"github.com/harper/coursetrack/internal/db"
	"github.com/harper/coursetrack/internal/logging"
	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/presenter"
	"github.com/harper/coursetrack/internal/remote"
	"github.com/harper/coursetrack/internal/store"
	"github.com/harper/coursetrack/internal/sync"
	"github.com/harper/coursetrack/internal/ui"
)

// Command annotations controlling how much of the app is wired.
const (
	// annotationConfigOnly skips storage entirely.
	annotationConfigOnly = "config-only"
	// annotationNoView wires the store but keeps stdout free of renders.
	annotationNoView = "no-view"
	// annotationLazyLoad leaves the initial load to the command.
	annotationLazyLoad = "lazy-load"
)

// errReported marks failures the presenter already showed to the user.
var errReported = errors.New("reported")

var (
	cfg         *config.Config
	logger      = zerolog.Nop()
	backend     adapter.Backend
	local       *adapter.Local
	remoteAPI   *remote.Client
	syncer      *sync.Syncer
	charmClient *charm.Client
	courseStore *store.Store
	pres        *presenter.Presenter
	view        *ui.Terminal
	stdin       = bufio.NewReader(os.Stdin)
)

var rootCmd = &cobra.Command{
	Use:   "coursetrack",
	Short: "Track progress through your courses",
	Long: `coursetrack keeps a list of courses with lesson progress, tags and favorites.

Courses are stored in a remote REST service. When it cannot be reached,
changes are kept in a local snapshot and pushed on the next run.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and releases storage afterwards.
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cmd.Annotations[annotationConfigOnly] != "" || cmd.Name() == "help" {
		return nil
	}
	if err := openStorage(); err != nil {
		return err
	}

	if cmd.Annotations[annotationNoView] == "" {
		yes, _ := cmd.Flags().GetBool("yes")
		if f := cmd.Flags().Lookup("force"); f != nil && f.Value.String() == "true" {
			yes = true
		}
		noStats, _ := cmd.Flags().GetBool("no-stats")
		view = ui.NewTerminal(os.Stdout, stdin, ui.WithAssumeYes(yes), ui.WithStats(!noStats))
		pres = presenter.New(courseStore, view, view, view,
			presenter.WithLogger(logger),
			presenter.WithNotifyDuration(cfg.NotifyDuration),
			presenter.WithCriteria(presenter.Criteria{Sort: presenter.ParseSortKey(cfg.DefaultSort)}),
		)
	}

	if cmd.Annotations[annotationLazyLoad] == "" {
		if cfg.AutoPush {
			if n := sync.TryPush(cmd.Context(), syncer); n > 0 {
				logger.Info().Int("courses", n).Msg("pushed offline changes")
			}
		}
		if err := courseStore.Load(cmd.Context()); err != nil {
			return err
		}
	}
	if pres != nil {
		pres.Attach()
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if f := cmd.Flags().Lookup("mode"); f != nil && f.Changed {
		c.Mode = f.Value.String()
	}
	if f := cmd.Flags().Lookup("backend"); f != nil && f.Changed {
		c.Backend = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		c.LogLevel = f.Value.String()
	}
}

// openStorage builds the local snapshot, the remote client and the store.
func openStorage() error {
	b, err := openBackend()
	if err != nil {
		if cfg.Backend != config.BackendBadger && cfg.Backend != config.BackendSQLite {
			return err
		}
		// Disk backends degrade to memory.
		logger.Warn().Err(err).Str("backend", cfg.Backend).Msg("cannot open local storage, falling back to in-memory store (no persistence)")
		b = adapter.NewMemory()
	}
	backend = b
	local = adapter.NewLocal(backend, adapter.WithSnapshotKey(cfg.SnapshotKey))

	opts := []store.Option{
		store.WithLogger(logger),
		store.WithSeed(models.DemoCourses),
	}

	switch cfg.Mode {
	case config.ModeLocal:
		courseStore = store.New(local, opts...)
	case config.ModeRemote:
		remoteAPI = remote.New(cfg.APIBaseURL,
			remote.WithEndpoint(cfg.Endpoint),
			remote.WithTimeout(cfg.RequestTimeout),
			remote.WithLogger(logger),
		)
		syncer = sync.NewSyncer(remoteAPI, local, sync.WithLogger(logger))
		courseStore = store.New(remoteAPI, append(opts, store.WithFallback(local))...)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if charmClient != nil {
		if err := charmClient.SyncIfStale(); err != nil {
			logger.Warn().Err(err).Msg("charm sync failed")
		}
	}
	return nil
}

func openBackend() (adapter.Backend, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return adapter.OpenBadger(filepath.Join(cfg.DataDir, "badger"))
	case config.BackendSQLite:
		conn, err := db.Open(filepath.Join(cfg.DataDir, db.FileName))
		if err != nil {
			return nil, err
		}
		return db.NewSnapshotStore(conn), nil
	case config.BackendCharm:
		client, err := charm.NewClient(charm.Config{
			Host:           cfg.CharmHost,
			AutoSync:       cfg.CharmAutoSync,
			StaleThreshold: cfg.CharmStaleThreshold,
		}, charm.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("charm client: %w", err)
		}
		charmClient = client
		return client, nil
	case config.BackendMemory:
		return adapter.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func teardown() {
	if pres != nil {
		pres.Detach()
	}
	if backend != nil {
		if err := backend.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing local storage")
		}
	}
}

// findCourse resolves an id or unique id prefix.
func findCourse(ref string) (models.Course, error) {
	c, err := courseStore.Find(ref)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c, fmt.Errorf("no course matches %q", ref)
	case err != nil:
		return c, err
	}
	return c, nil
}

// reported turns a presenter result into a command error.
func reported(ok bool) error {
	if !ok {
		return errReported
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/coursetrack/config.yaml)")
	rootCmd.PersistentFlags().String("mode", "", "storage mode (remote|local)")
	rootCmd.PersistentFlags().String("backend", "", "local snapshot backend (badger|sqlite|charm|memory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "answer yes to every confirmation")
	rootCmd.PersistentFlags().Bool("no-stats", false, "hide the statistics line")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
