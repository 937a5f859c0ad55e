// Package fileutil copies, moves, deletes and downloads files.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrSameFile     = errors.New("source and destination are the same file")
	ErrDstInsideSrc = errors.New("destination is inside the source directory")
	ErrChecksum     = errors.New("checksum mismatch")
)

// Copy copies a file or a directory tree. Parent directories of dst are
// created as needed.
func Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := checkPaths(src, dst, info.IsDir()); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst, info.Mode().Perm())
}

// checkPaths rejects a dst equal to src, or nested under it when src is a
// directory, since a tree walk would then descend into its own output.
func checkPaths(src, dst string, dir bool) error {
	cs, err := canonical(src)
	if err != nil {
		return err
	}
	cd, err := canonical(dst)
	if err != nil {
		return err
	}
	if cs == cd {
		return ErrSameFile
	}
	if dir && strings.HasPrefix(cd, cs+string(filepath.Separator)) {
		return ErrDstInsideSrc
	}
	return nil
}

// canonical resolves symlinks on the longest existing prefix of p.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	dir, base := filepath.Split(abs)
	dir = filepath.Clean(dir)
	if dir == abs {
		return abs, nil
	}
	parent, err := canonical(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, base), nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}
		if !info.Mode().IsRegular() {
			return nil // sockets, devices and symlinks are skipped
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

// Move renames src to dst, falling back to copy and delete across
// filesystems.
func Move(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := checkPaths(src, dst, info.IsDir()); err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", dst, err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := Copy(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

// Delete removes a file or a directory tree.
func Delete(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
