// Package fsio defines the file system capability consumed by the conversion
// pipeline, and its operating-system implementation.
//
// Every mutating operation returns a per-call error and never panics: a
// single failed delete or rename must be absorbable by the caller without
// aborting a batch. Injecting this interface (instead of reaching for the
// os package directly) is what makes the pipeline testable against fakes.
package fsio

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the narrow file system surface the pipeline needs.
type FS interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) bool

	// WalkDir walks the tree rooted at root, calling fn for every file and
	// directory, in lexical order.
	WalkDir(root string, fn fs.WalkDirFunc) error

	// Size returns the byte size of the file at path.
	Size(path string) (int64, error)

	// ReadFile returns the contents of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating or truncating it.
	WriteFile(path string, data []byte) error

	// Remove deletes the file at path.
	Remove(path string) error

	// Rename atomically moves oldPath to newPath. It is a single filesystem
	// operation per file; a file is never left half-renamed.
	Rename(oldPath, newPath string) error
}

// OS implements FS on the real operating system.
type OS struct{}

// NewOS returns the operating-system backed file system.
func NewOS() *OS {
	return &OS{}
}

func (*OS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (*OS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

func (*OS) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (*OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (*OS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (*OS) Remove(path string) error {
	return os.Remove(path)
}

func (*OS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
