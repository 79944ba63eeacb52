package capture

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/nixdeck/internal/component"
	"github.com/thoreinstein/nixdeck/internal/copier"
	"github.com/thoreinstein/nixdeck/internal/errors"
)

// IncomingSuffix names the sibling a component is copied into before it is
// swapped over the live directory.
const IncomingSuffix = ".nixdeck-incoming"

// stagingMarker separates the capture name from the random suffix in a
// staging directory name.
const stagingMarker = ".staging-"

// MaxNameLen caps capture names so the staging name built from them stays
// under the 255-byte file name limit of common filesystems.
const MaxNameLen = 200

// Layout describes how one kind of capture is stored.
type Layout struct {
	// Kind is used in messages ("snapshot", "container").
	Kind string

	// Dir holds one subdirectory per capture.
	Dir string

	// PayloadDir is the subdirectory of a capture holding component
	// copies. Empty means the capture directory itself.
	PayloadDir string

	// ItemsKey is the metadata key listing captured components.
	ItemsKey string

	// BackupSuffix is appended to a live path to form its backup path.
	BackupSuffix string

	// Components is the ordered set captured by Create.
	Components []string
}

// Store creates, reads, restores, and deletes captures of one Layout.
// It holds no mutable state; callers serialize operations on the same name.
type Store struct {
	layout        Layout
	componentRoot string
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for capture and restore steps.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for the created timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns a Store for layout whose live components live under
// componentRoot.
func NewStore(layout Layout, componentRoot string, opts ...Option) *Store {
	s := &Store{
		layout:        layout,
		componentRoot: componentRoot,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("kind", layout.Kind)
	return s
}

// Info pairs a capture name with its metadata. Err is set when the
// metadata could not be read; such captures are incomplete or corrupt.
type Info struct {
	Name     string
	Metadata *Metadata
	Err      error
}

// Complete reports whether the capture has readable metadata.
func (i Info) Complete() bool {
	return i.Err == nil && i.Metadata != nil
}

// Path returns the directory of the named capture.
func (s *Store) Path(name string) string {
	return filepath.Join(s.layout.Dir, name)
}

// Layout returns the store's layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// Exists reports whether a capture directory for name exists.
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return s.exists(name)
}

func (s *Store) exists(name string) (bool, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.IOf(err, "checking %s %q", s.layout.Kind, name)
	}
	return info.IsDir(), nil
}

// taken reports whether anything, directory or not, occupies name's path.
func (s *Store) taken(name string) (bool, error) {
	if _, err := os.Lstat(s.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.IOf(err, "checking %s %q", s.layout.Kind, name)
	}
	return true, nil
}

func (s *Store) mustExist(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	ok, err := s.exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %q", s.layout.Kind, name)
	}
	return nil
}

// Create captures every present component of the layout into a new
// capture called name.
//
// Components are copied into a hidden staging directory next to the final
// location; metadata is written last and the staging directory is renamed
// into place. A failure removes the staging directory, so a failed Create
// leaves no capture behind. Returns ErrAlreadyExists if name is taken.
func (s *Store) Create(ctx context.Context, name string) (*Metadata, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	ok, err := s.taken(name)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "%s %q", s.layout.Kind, name)
	}

	if err := os.MkdirAll(s.layout.Dir, 0o700); err != nil {
		return nil, errors.IOf(err, "creating %s directory", s.layout.Kind)
	}

	staging, err := os.MkdirTemp(s.layout.Dir, "."+name+stagingMarker+"*")
	if err != nil {
		return nil, errors.IOf(err, "creating staging directory for %q", name)
	}
	committed := false
	defer func() {
		if !committed {
			if rmErr := os.RemoveAll(staging); rmErr != nil {
				s.logger.Warn("removing staging directory", "path", staging, "error", rmErr)
			}
		}
	}()

	payload := filepath.Join(staging, s.layout.PayloadDir)
	captured := make([]string, 0, len(s.layout.Components))

	for _, comp := range s.layout.Components {
		src, err := component.Dir(s.componentRoot, comp)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				s.logger.Debug("component not present, skipping", "component", comp)
				continue
			}
			return nil, errors.IOf(err, "checking %s", src)
		}

		if err := copier.CopyTree(ctx, src, filepath.Join(payload, comp)); err != nil {
			return nil, errors.Wrapf(err, "capturing %s", comp)
		}
		s.logger.Debug("captured component", "name", name, "component", comp)
		captured = append(captured, comp)
	}

	meta := &Metadata{
		Name:        name,
		Created:     s.now().Local().Format(time.RFC3339),
		Description: "",
		Items:       captured,
	}
	if err := writeMetadata(staging, meta, s.layout.ItemsKey); err != nil {
		return nil, errors.Wrap(err, "writing metadata")
	}

	final := s.Path(name)
	if err := os.Rename(staging, final); err != nil {
		if ok, _ := s.taken(name); ok {
			return nil, errors.Wrapf(errors.ErrAlreadyExists, "%s %q", s.layout.Kind, name)
		}
		return nil, errors.IOf(err, "committing %s %q", s.layout.Kind, name)
	}
	committed = true

	s.logger.Info("capture created", "name", name, "components", len(captured))
	return meta, nil
}

// Names returns the sorted names of all captures. A missing directory
// yields an empty list. Staging directories are never listed.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.layout.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.IOf(err, "reading %s directory", s.layout.Kind)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Infos returns every capture with its metadata, sorted by name.
func (s *Store) Infos() ([]Info, error) {
	names, err := s.Names()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		meta, err := readMetadata(s.Path(name), s.layout.ItemsKey)
		infos = append(infos, Info{Name: name, Metadata: meta, Err: err})
	}
	return infos, nil
}

// Metadata reads the metadata of the named capture.
func (s *Store) Metadata(name string) (*Metadata, error) {
	if err := s.mustExist(name); err != nil {
		return nil, err
	}
	meta, err := readMetadata(s.Path(name), s.layout.ItemsKey)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %q", s.layout.Kind, name)
	}
	return meta, nil
}

// Restore copies every component listed in the capture's metadata back
// over the live configuration and returns the components restored.
//
// Components listed but missing from the capture are skipped. Live
// components not listed are never touched. An existing live directory is
// renamed to its backup path (replacing an older backup) before the
// captured copy takes its place. Each component is first copied to a
// sibling directory, so a failed copy leaves the live directory as it was.
func (s *Store) Restore(ctx context.Context, name string) ([]string, error) {
	meta, err := s.Metadata(name)
	if err != nil {
		return nil, err
	}

	payload := filepath.Join(s.Path(name), s.layout.PayloadDir)
	if err := os.MkdirAll(s.componentRoot, 0o755); err != nil {
		return nil, errors.IOf(err, "creating %s", s.componentRoot)
	}

	restored := make([]string, 0, len(meta.Items))
	for _, comp := range meta.Items {
		live, err := component.Dir(s.componentRoot, comp)
		if err != nil {
			return restored, errors.Mark(errors.Wrap(err, "metadata lists a foreign component"), errors.ErrParse)
		}

		src := filepath.Join(payload, comp)
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn("captured copy missing, skipping", "name", name, "component", comp)
				continue
			}
			return restored, errors.IOf(err, "checking %s", src)
		}

		if err := s.restoreComponent(ctx, src, live); err != nil {
			return restored, errors.Wrapf(err, "restoring %s", comp)
		}
		s.logger.Debug("restored component", "name", name, "component", comp)
		restored = append(restored, comp)
	}

	s.logger.Info("capture restored", "name", name, "components", len(restored))
	return restored, nil
}

func (s *Store) restoreComponent(ctx context.Context, src, live string) error {
	incoming := live + IncomingSuffix
	if err := os.RemoveAll(incoming); err != nil {
		return errors.IOf(err, "clearing %s", incoming)
	}
	if err := copier.CopyTree(ctx, src, incoming); err != nil {
		_ = os.RemoveAll(incoming)
		return err
	}

	backup := live + s.layout.BackupSuffix
	if err := BackupAside(live, backup); err != nil {
		_ = os.RemoveAll(incoming)
		return err
	}

	if err := os.Rename(incoming, live); err != nil {
		if _, statErr := os.Lstat(live); os.IsNotExist(statErr) {
			_ = os.Rename(backup, live)
		}
		return errors.IOf(err, "moving %s into place", live)
	}
	return nil
}

// Delete removes the named capture.
func (s *Store) Delete(name string) error {
	if err := s.mustExist(name); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Path(name)); err != nil {
		return errors.IOf(err, "deleting %s %q", s.layout.Kind, name)
	}
	s.logger.Info("capture deleted", "name", name)
	return nil
}

// StagingDirs returns the paths of staging directories left in dir by
// interrupted captures.
func StagingDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IOf(err, "reading %s", dir)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), ".") && strings.Contains(entry.Name(), stagingMarker) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

// IncomingDirs returns the paths of incoming copies left in componentRoot
// by interrupted restores.
func IncomingDirs(componentRoot string) ([]string, error) {
	entries, err := os.ReadDir(componentRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IOf(err, "reading %s", componentRoot)
	}

	var out []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), IncomingSuffix) {
			out = append(out, filepath.Join(componentRoot, entry.Name()))
		}
	}
	return out, nil
}

// BackupAside renames live to backup, replacing any previous backup.
// Nothing happens when live does not exist.
func BackupAside(live, backup string) error {
	if _, err := os.Lstat(live); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.IOf(err, "checking %s", live)
	}
	if err := os.RemoveAll(backup); err != nil {
		return errors.IOf(err, "removing previous backup %s", backup)
	}
	if err := os.Rename(live, backup); err != nil {
		return errors.IOf(err, "backing up %s", live)
	}
	return nil
}

// ValidateName checks that name can be used as a single directory key.
// Names starting with a dot are reserved for staging directories.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.ErrMissingName
	case len(name) > MaxNameLen:
		return errors.Wrapf(errors.ErrInvalidName, "name is %d bytes, limit is %d", len(name), MaxNameLen)
	case strings.HasPrefix(name, "."):
		return errors.Wrapf(errors.ErrInvalidName, "%q starts with a dot", name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return errors.Wrapf(errors.ErrInvalidName, "%q contains a path separator", name)
	case filepath.Base(name) != name:
		return errors.Wrapf(errors.ErrInvalidName, "%q", name)
	}
	return nil
}
