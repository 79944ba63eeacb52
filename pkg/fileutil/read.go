package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// MaxFileSize caps component config reads and writes at 1 MiB.
const MaxFileSize = 1 << 20

// ErrFileTooLarge is returned when content exceeds MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadLimited reads all of r, failing with ErrFileTooLarge past MaxFileSize.
func ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, errors.IO(err, "reading input")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ReadFile is ReadLimited on the file at path. Oversized regular files are
// rejected from their stat size before any bytes are read.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOf(err, "opening %s", path)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Mode().IsRegular() && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return ReadLimited(f)
}
