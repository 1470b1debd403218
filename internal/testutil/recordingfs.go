package testutil

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/vk/convertkit/internal/fsio"
)

// RecordingFS wraps another fsio.FS, records every mutating call, and can
// be told to fail specific operations. Tests use it to prove the pipeline
// mutates nothing before validation and absorbs per-file failures.
type RecordingFS struct {
	Inner fsio.FS

	// FailRemove and FailRename make the named paths fail their operation.
	FailRemove map[string]bool
	FailRename map[string]bool

	mu      sync.Mutex
	writes  []string
	removes []string
	renames []string
}

// NewRecordingFS wraps inner.
func NewRecordingFS(inner fsio.FS) *RecordingFS {
	return &RecordingFS{Inner: inner}
}

// Mutations returns the total count of mutating calls observed.
func (r *RecordingFS) Mutations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes) + len(r.removes) + len(r.renames)
}

// Removes returns the recorded Remove targets.
func (r *RecordingFS) Removes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.removes))
	copy(out, r.removes)
	return out
}

func (r *RecordingFS) DirExists(path string) bool {
	return r.Inner.DirExists(path)
}

func (r *RecordingFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return r.Inner.WalkDir(root, fn)
}

func (r *RecordingFS) Size(path string) (int64, error) {
	return r.Inner.Size(path)
}

func (r *RecordingFS) ReadFile(path string) ([]byte, error) {
	return r.Inner.ReadFile(path)
}

func (r *RecordingFS) WriteFile(path string, data []byte) error {
	r.mu.Lock()
	r.writes = append(r.writes, path)
	r.mu.Unlock()
	return r.Inner.WriteFile(path, data)
}

func (r *RecordingFS) Remove(path string) error {
	r.mu.Lock()
	r.removes = append(r.removes, path)
	r.mu.Unlock()
	if r.FailRemove[path] {
		return fmt.Errorf("remove %s: injected failure", path)
	}
	return r.Inner.Remove(path)
}

func (r *RecordingFS) Rename(oldPath, newPath string) error {
	r.mu.Lock()
	r.renames = append(r.renames, oldPath)
	r.mu.Unlock()
	if r.FailRename[oldPath] {
		return fmt.Errorf("rename %s: injected failure", oldPath)
	}
	return r.Inner.Rename(oldPath, newPath)
}
