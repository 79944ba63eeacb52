// Package copier copies files and directory trees by content.
package copier

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
)

// DirPerm is the mode used for directories created by CopyTree.
const DirPerm = 0o755

// CopyTree copies src to dst.
//
// A directory is recreated at dst (including missing ancestors) and every
// entry is copied recursively, preserving relative structure. A regular file
// is copied byte-for-byte, creating dst's parent directories as needed, and
// keeps its permission bits. Symbolic links are followed; timestamps and
// ownership are not preserved. Sockets, pipes, and devices are skipped.
//
// The first failure aborts the copy. Entries copied before the failure stay
// on disk. ctx is checked between entries.
func CopyTree(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.IOf(err, "stat %s", src)
	}
	return copyEntry(ctx, src, dst, info)
}

func copyEntry(ctx context.Context, src, dst string, info fs.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch {
	case info.IsDir():
		return copyDir(ctx, src, dst)
	case info.Mode().IsRegular():
		if err := os.MkdirAll(filepath.Dir(dst), DirPerm); err != nil {
			return errors.IOf(err, "creating directory %s", filepath.Dir(dst))
		}
		logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "copy file", "src", src, "dst", dst)
		return CopyFile(src, dst)
	default:
		logging.FromContext(ctx).Debug("skipping special file", "path", src, "mode", info.Mode().String())
		return nil
	}
}

// copyDir recursively copies a directory from src to dst.
func copyDir(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(dst, DirPerm); err != nil {
		return errors.IOf(err, "creating directory %s", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.IOf(err, "reading directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat rather than entry.Info so symlinks resolve to their target.
		info, err := os.Stat(srcPath)
		if err != nil {
			return errors.IOf(err, "stat %s", srcPath)
		}
		if err := copyEntry(ctx, srcPath, dstPath, info); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies a single regular file from src to dst, truncating dst if
// it exists. The parent of dst must exist.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.IOf(err, "opening source file %s", src)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.IOf(err, "stating source file %s", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.IOf(err, "creating destination file %s", dst)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.IOf(err, "copying content from %s to %s", src, dst)
	}

	if err := dstFile.Close(); err != nil {
		return errors.IOf(err, "closing destination file %s", dst)
	}

	// OpenFile only applies the mode to new files.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.IOf(err, "setting permissions on %s", dst)
	}

	return nil
}
