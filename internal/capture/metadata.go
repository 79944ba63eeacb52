package capture

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/pkg/fileutil"
)

// MetadataFile is the name of the metadata record inside a capture directory.
const MetadataFile = "metadata.json"

// Item keys used by the two capture kinds.
const (
	ItemsKeyFiles      = "files"
	ItemsKeyComponents = "components"
)

// Metadata describes one capture. It is written last, so its presence means
// every listed component was copied.
type Metadata struct {
	Name        string
	Created     string
	Description string

	// Items is the ordered list of components actually captured.
	Items []string
}

// record is the on-disk form. Exactly one of Files or Components is set,
// depending on the capture kind.
type record struct {
	Name        string    `json:"name"`
	Created     string    `json:"created"`
	Description string    `json:"description"`
	Files       *[]string `json:"files,omitempty"`
	Components  *[]string `json:"components,omitempty"`
}

func encodeMetadata(m *Metadata, itemsKey string) (*record, error) {
	items := m.Items
	if items == nil {
		items = []string{}
	}

	rec := &record{
		Name:        m.Name,
		Created:     m.Created,
		Description: m.Description,
	}
	switch itemsKey {
	case ItemsKeyFiles:
		rec.Files = &items
	case ItemsKeyComponents:
		rec.Components = &items
	default:
		return nil, errors.Newf("unknown metadata item key %q", itemsKey)
	}
	return rec, nil
}

// decodeMetadata parses data. Unknown fields are ignored; a missing item
// key is ErrParse rather than an empty list.
func decodeMetadata(data []byte, itemsKey string) (*Metadata, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing metadata"), errors.ErrParse)
	}

	var items *[]string
	switch itemsKey {
	case ItemsKeyFiles:
		items = rec.Files
	case ItemsKeyComponents:
		items = rec.Components
	}
	if items == nil {
		return nil, errors.Wrapf(errors.ErrParse, "metadata has no %q list", itemsKey)
	}

	return &Metadata{
		Name:        rec.Name,
		Created:     rec.Created,
		Description: rec.Description,
		Items:       *items,
	}, nil
}

func writeMetadata(dir string, m *Metadata, itemsKey string) error {
	rec, err := encodeMetadata(m, itemsKey)
	if err != nil {
		return err
	}
	return fileutil.WriteJSON(filepath.Join(dir, MetadataFile), rec)
}

// readMetadata loads dir's metadata. A missing file is ErrIncomplete.
func readMetadata(dir, itemsKey string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrIncomplete, "no %s in %s", MetadataFile, dir)
		}
		return nil, errors.IO(err, "reading metadata")
	}
	return decodeMetadata(data, itemsKey)
}
