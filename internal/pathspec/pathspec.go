// Package pathspec canonicalizes user-supplied target paths into the logical
// path space used for file discovery and for matching extracted objects back
// to their source files.
package pathspec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/convertkit/internal/fsio"
)

var (
	// ErrPathInvalid means the supplied string is not a usable path at all
	// (it contains no path separator). The job fails before any side effect.
	ErrPathInvalid = errors.New("path is not a valid directory path")

	// ErrPathMissing means the resolved directory does not exist on the
	// backing store. The job fails before any side effect.
	ErrPathMissing = errors.New("path does not exist")
)

// modSegment is the virtualization prefix mods are mounted under. A path
// inside "mods/<author>/<modname>/" addresses the same file the target
// runtime would see at the suffix once the mod is installed, so the three
// segments are stripped when computing the logical path.
const modSegment = "mods"

// Root is a validated conversion target.
type Root struct {
	// Abs is the path as supplied by the caller, cleaned. All file system
	// operations use it.
	Abs string

	// Logical is Abs with any mod virtualization prefix stripped and
	// separators normalized to forward slashes. Audit records and object
	// matching use it.
	Logical string
}

// Normalize validates path against the backing store and computes its
// logical form.
func Normalize(fs fsio.FS, path string) (Root, error) {
	if !strings.ContainsAny(path, `/\`) {
		return Root{}, fmt.Errorf("%q: %w", path, ErrPathInvalid)
	}
	cleaned := filepath.Clean(path)
	if !fs.DirExists(cleaned) {
		return Root{}, fmt.Errorf("%q: %w", cleaned, ErrPathMissing)
	}
	return Root{
		Abs:     cleaned,
		Logical: Logical(cleaned),
	}, nil
}

// Logical converts a path into its logical form: forward slashes, with any
// "mods/<author>/<modname>/" segment stripped.
func Logical(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		// The mod prefix needs all three segments plus at least one
		// segment of real path behind it to be meaningful.
		if part == modSegment && len(parts) > i+3 {
			return strings.Join(append(parts[:i:i], parts[i+3:]...), "/")
		}
	}
	return strings.Join(parts, "/")
}
