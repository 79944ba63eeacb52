// Package container captures the full component set into named containers,
// loads them back over the live configuration, and exports them as
// compressed archives.
package container

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/thoreinstein/nixdeck/internal/capture"
	"github.com/thoreinstein/nixdeck/internal/component"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/paths"
	"github.com/thoreinstein/nixdeck/internal/runner"
)

// PayloadDir is the subdirectory of a container holding component copies.
const PayloadDir = "config"

// BackupSuffix is appended to a live component directory when Load moves
// it aside.
const BackupSuffix = ".nixdeck-backup"

// DefaultArchiver is the tar-compatible tool used by Export.
const DefaultArchiver = "tar"

// Container describes a stored container.
type Container struct {
	Name        string
	Created     string
	Description string

	// Components lists the components captured, in capture order.
	Components []string

	// Path is the container directory.
	Path string
}

// Info is a listed container. Container is nil and Err set when the
// container's metadata is missing or unreadable.
type Info struct {
	Name      string
	Container *Container
	Err       error
}

// Complete reports whether the container has readable metadata.
func (i Info) Complete() bool {
	return i.Err == nil && i.Container != nil
}

// Manager creates, loads, and exports containers.
type Manager struct {
	store    *capture.Store
	runner   runner.Runner
	archiver string
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	now      func() time.Time
	runner   runner.Runner
	archiver string
}

// WithLogger sets the Manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides the time source for container timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRunner sets the runner used by Export.
func WithRunner(r runner.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithArchiver sets the tar-compatible tool used by Export.
func WithArchiver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.archiver = name
		}
	}
}

// NewManager returns a Manager storing containers under
// <rootDir>/containers and capturing components from componentRoot.
func NewManager(rootDir, componentRoot string, opts ...Option) *Manager {
	o := options{archiver: DefaultArchiver}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.runner == nil {
		o.runner = runner.New(runner.DefaultTimeout)
	}

	layout := capture.Layout{
		Kind:         "container",
		Dir:          paths.ContainersDir(rootDir),
		PayloadDir:   PayloadDir,
		ItemsKey:     capture.ItemsKeyComponents,
		BackupSuffix: BackupSuffix,
		Components:   component.CaptureSet(),
	}
	return &Manager{
		store: capture.NewStore(layout, componentRoot,
			capture.WithLogger(o.logger),
			capture.WithClock(o.now),
		),
		runner:   o.runner,
		archiver: o.archiver,
		logger:   o.logger,
	}
}

// Dir returns the directory holding all containers.
func (m *Manager) Dir() string {
	return m.store.Layout().Dir
}

// Create captures every component of the full set that currently exists.
// Returns errors.ErrAlreadyExists if a container called name exists.
func (m *Manager) Create(ctx context.Context, name string) (*Container, error) {
	meta, err := m.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.fromMetadata(name, meta), nil
}

// Load restores the components recorded in the container's metadata and
// returns the components loaded. Each live component directory is moved
// to "<dir>.nixdeck-backup" first.
func (m *Manager) Load(ctx context.Context, name string) ([]string, error) {
	return m.store.Restore(ctx, name)
}

// List returns container names in ascending order.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.store.Names()
}

// ListInfo returns every container with its metadata, in name order.
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
			item.Container = m.fromMetadata(info.Name, info.Metadata)
		}
		out = append(out, item)
	}
	return out, nil
}

// Get returns the named container's metadata.
func (m *Manager) Get(ctx context.Context, name string) (*Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta, err := m.store.Metadata(name)
	if err != nil {
		return nil, err
	}
	return m.fromMetadata(name, meta), nil
}

// Delete removes the named container.
func (m *Manager) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.store.Delete(name)
}

// Export writes a gzip-compressed tar archive of the container's directory
// to archivePath. Entries in the archive are rooted at the container name.
//
// A non-zero archiver exit is returned as a *runner.Failure carrying the
// tool's stderr.
func (m *Manager) Export(ctx context.Context, name, archivePath string) error {
	ok, err := m.store.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "container %q", name)
	}
	if archivePath == "" {
		return errors.Wrap(errors.ErrMissingName, "archive path")
	}

	abs, err := filepath.Abs(archivePath)
	if err != nil {
		return errors.IOf(err, "resolving %s", archivePath)
	}

	args := []string{"-czf", abs, "-C", m.Dir(), name}
	m.logger.Debug("exporting container", "name", name, "archive", abs, "archiver", m.archiver)
	if _, err := m.runner.Run(ctx, m.archiver, args...); err != nil {
		return errors.Wrapf(err, "exporting container %q", name)
	}

	m.logger.Info("container exported", "name", name, "archive", abs)
	return nil
}

func (m *Manager) fromMetadata(name string, meta *capture.Metadata) *Container {
	return &Container{
		Name:        meta.Name,
		Created:     meta.Created,
		Description: meta.Description,
		Components:  meta.Items,
		Path:        m.store.Path(name),
	}
}
