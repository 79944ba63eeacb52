// Package snapshot captures the critical component set into named
// snapshots and restores them.
//
// Snapshots live under <root>/snapshots/<name>/ with one directory per
// captured component and a metadata.json listing them under "files".
// Restoring moves each live component aside to "<component>.pre-restore-backup"
// before putting the captured copy in place.
package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/thoreinstein/nixdeck/internal/capture"
	"github.com/thoreinstein/nixdeck/internal/component"
	"github.com/thoreinstein/nixdeck/internal/paths"
)

// BackupSuffix is appended to a live component directory when a restore
// moves it aside.
const BackupSuffix = ".pre-restore-backup"

// Snapshot describes a stored snapshot.
type Snapshot struct {
	Name        string
	Created     string
	Description string

	// Files lists the components captured, in capture order.
	Files []string

	// Path is the snapshot directory.
	Path string
}

// Info is a listed snapshot. Snapshot is nil and Err set when the
// snapshot's metadata is missing or unreadable.
type Info struct {
	Name     string
	Snapshot *Snapshot
	Err      error
}

// Complete reports whether the snapshot has readable metadata.
func (i Info) Complete() bool {
	return i.Err == nil && i.Snapshot != nil
}

// Manager creates and restores snapshots.
type Manager struct {
	store *capture.Store
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the Manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides the time source for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewManager returns a Manager storing snapshots under
// <rootDir>/snapshots and capturing components from componentRoot.
func NewManager(rootDir, componentRoot string, opts ...Option) *Manager {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	layout := capture.Layout{
		Kind:         "snapshot",
		Dir:          paths.SnapshotsDir(rootDir),
		ItemsKey:     capture.ItemsKeyFiles,
		BackupSuffix: BackupSuffix,
		Components:   component.CriticalSet(),
	}
	return &Manager{
		store: capture.NewStore(layout, componentRoot,
			capture.WithLogger(o.logger),
			capture.WithClock(o.now),
		),
	}
}

// Dir returns the directory holding all snapshots.
func (m *Manager) Dir() string {
	return m.store.Layout().Dir
}

// Create snapshots every critical component that currently exists.
// Returns errors.ErrAlreadyExists if a snapshot called name exists; the
// existing snapshot is left untouched.
func (m *Manager) Create(ctx context.Context, name string) (*Snapshot, error) {
	meta, err := m.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.fromMetadata(name, meta), nil
}

// List returns snapshot names in ascending order. A missing snapshots
// directory yields an empty list.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.store.Names()
}

// ListInfo returns every snapshot with its metadata, in name order.
func (m *Manager) ListInfo(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := m.store.Infos()
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(infos))
	for _, info := range infos {
		item := Info{Name: info.Name, Err: info.Err}
		if info.Metadata != nil {
			item.Snapshot = m.fromMetadata(info.Name, info.Metadata)
		}
		out = append(out, item)
	}
	return out, nil
}

// Get returns the named snapshot's metadata.
func (m *Manager) Get(ctx context.Context, name string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, err := m.store.Metadata(name)
	if err != nil {
		return nil, err
	}
	return m.fromMetadata(name, meta), nil
}

// Restore puts every component recorded in the snapshot back in place and
// returns the components restored. Components not recorded are left alone.
//
// Returns errors.ErrNotFound if the snapshot does not exist and
// errors.ErrIncomplete if it has no metadata.
func (m *Manager) Restore(ctx context.Context, name string) ([]string, error) {
	return m.store.Restore(ctx, name)
}

// Delete removes the named snapshot. Live configuration is not touched.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.store.Delete(name)
}

func (m *Manager) fromMetadata(name string, meta *capture.Metadata) *Snapshot {
	return &Snapshot{
		Name:        meta.Name,
		Created:     meta.Created,
		Description: meta.Description,
		Files:       meta.Items,
		Path:        m.store.Path(name),
	}
}
