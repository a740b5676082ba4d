package build

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cruciblehq/bootforge/internal/paths"
)

// Copies a regular file, replacing any existing file at dest.
//
// The content is written to a temporary file next to dest and renamed into
// place, so dest is never observed half-written. The source permission bits
// are preserved.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrCopy, src)
	}

	if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}

// Copies a directory tree into dest, which is created if absent.
//
// Directories, regular files and symlinks are copied. Symlinks are recreated
// as-is, not followed. Any other file type is rejected.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, relPath)

		return copyEntry(path, target, d)
	})
}

// Copies a single directory entry to target.
func copyEntry(path, target string, d fs.DirEntry) error {
	switch {
	case d.IsDir():
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.MkdirAll(target, info.Mode().Perm()|0700)

	case d.Type()&fs.ModeSymlink != 0:
		link, err := os.Readlink(path)
		if err != nil {
			return err
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return os.Symlink(link, target)

	case d.Type().IsRegular():
		return copyFile(path, target)

	default:
		return fmt.Errorf("%w: unsupported file type %s at %s", ErrCopy, d.Type(), path)
	}
}

// Removes dir and everything below it, then recreates it empty.
//
// Resetting an absent directory just creates it, so the operation is
// idempotent.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, paths.DefaultDirMode)
}

// Removes a file, treating an absent file as success.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
