// ABOUTME: Charm KV backend for course snapshots, synced across devices
// ABOUTME: Every call opens the KV store through kv.Do and closes it again

package charm

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	charmproto "github.com/charmbracelet/charm/proto"
	"github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/adapter"
)

// DBName is the charm kv database holding course snapshots.
const DBName = "coursetrack"

// Client holds no connection; the KV lock is only taken for the duration of a call.
type Client struct {
	dbName         string
	autoSync       bool
	staleThreshold time.Duration
	logger         zerolog.Logger
}

type Option func(*Client)

func WithDBName(name string) Option {
	return func(c *Client) {
		c.dbName = name
	}
}

// WithAutoSync controls pushing to the server after each write.
func WithAutoSync(enabled bool) Option {
	return func(c *Client) {
		c.autoSync = enabled
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient points the charm library at cfg.Host and applies opts.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host != "" {
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, err
		}
	}

	c := &Client{
		dbName:         DBName,
		autoSync:       cfg.AutoSync,
		staleThreshold: cfg.StaleThreshold,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ adapter.Backend = (*Client)(nil)

func (c *Client) Get(_ context.Context, key string) ([]byte, error) {
	if err := c.SyncIfStale(); err != nil {
		c.logger.Warn().Err(err).Str("db", c.dbName).Msg("charm sync before read failed")
	}

	var snapshot []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		data, err := k.Get([]byte(key))
		snapshot = data
		return err
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, adapter.ErrNoSnapshot
	case err != nil:
		return nil, err
	}
	return snapshot, nil
}

func (c *Client) Put(_ context.Context, key string, data []byte) error {
	return c.write(func(k *kv.KV) error { return k.Set([]byte(key), data) })
}

func (c *Client) Delete(_ context.Context, key string) error {
	return c.write(func(k *kv.KV) error { return k.Delete([]byte(key)) })
}

// write runs fn under the write lock, pushing afterwards when auto-sync is on.
func (c *Client) write(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if !c.autoSync {
			return nil
		}
		c.logger.Debug().Str("db", c.dbName).Msg("pushing snapshot to charm")
		return k.Sync()
	})
}

// Sync pulls and pushes pending changes.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error { return k.Sync() })
}

// SyncState describes how fresh the local copy is.
type SyncState struct {
	LastSync time.Time
	Stale    bool
}

// State reads the last sync time and staleness in one pass.
func (c *Client) State() SyncState {
	var st SyncState
	_ = kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		st.LastSync = k.LastSyncTime()
		if c.staleThreshold > 0 {
			st.Stale = k.IsStale(c.staleThreshold)
		}
		return nil
	})
	return st
}

func (c *Client) LastSyncTime() time.Time {
	return c.State().LastSync
}

// IsStale is always false when no threshold is configured.
func (c *Client) IsStale() bool {
	if c.staleThreshold == 0 {
		return false
	}
	return c.State().Stale
}

func (c *Client) SyncIfStale() error {
	if !c.IsStale() {
		return nil
	}
	c.logger.Info().Dur("threshold", c.staleThreshold).Msg("charm data stale, syncing")
	return c.Sync()
}

// Reset drops the local KV copy; the next sync pulls from the server.
func (c *Client) Reset() error {
	return kv.Reset(c.dbName)
}

// RepairReport summarizes a local KV repair.
type RepairReport struct {
	WalCheckpointed bool
	ShmRemoved      bool
	IntegrityOK     bool
	Vacuumed        bool
}

// Repair checks and fixes the local KV files. force repairs even when the
// integrity check fails.
func (c *Client) Repair(force bool) (RepairReport, error) {
	res, err := kv.Repair(c.dbName, force)
	if err != nil {
		return RepairReport{}, err
	}
	return RepairReport{
		WalCheckpointed: res.WalCheckpointed,
		ShmRemoved:      res.ShmRemoved,
		IntegrityOK:     res.IntegrityOK,
		Vacuumed:        res.Vacuumed,
	}, nil
}

// User returns the linked charm account.
func (c *Client) User() (*charmproto.User, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return nil, err
	}
	return cc.Bio()
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}
