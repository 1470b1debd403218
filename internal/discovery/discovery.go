// Package discovery enumerates candidate legacy definition files under a
// conversion root.
package discovery

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/pathspec"
)

// Record is one discovered candidate file. Records are re-derived on every
// convergence pass; deletions and renames can change the set between passes,
// so they are never cached across passes.
type Record struct {
	// AbsPath locates the file for interpreter and file system calls.
	AbsPath string

	// LogicalPath is AbsPath in logical form (mod prefix stripped, forward
	// slashes). Used for audit records and stable ordering.
	LogicalPath string

	// Size is the file's byte size at discovery time. Zero-byte files are
	// never executed but remain eligible for cleanup.
	Size int64
}

// Discover walks the root recursively and returns every file whose base name
// matches one of the glob patterns, excluding files already carrying the
// converted prefix. The result is sorted lexicographically by logical path;
// the pipeline is set-oriented, the ordering exists for determinism.
func Discover(fsys fsio.FS, root string, patterns []string, excludePrefix string) ([]Record, error) {
	var records []Record

	err := fsys.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if excludePrefix != "" && len(name) >= len(excludePrefix) && name[:len(excludePrefix)] == excludePrefix {
			return nil
		}
		matched, err := matchAny(patterns, name)
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}
		size, err := fsys.Size(p)
		if err != nil {
			// The file vanished between walk and stat; treat as not
			// discovered rather than failing the scan.
			return nil
		}
		records = append(records, Record{
			AbsPath:     p,
			LogicalPath: pathspec.Logical(p),
			Size:        size,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files under %s: %w", root, err)
	}

	sort.Slice(records, func(a, b int) bool {
		return records[a].LogicalPath < records[b].LogicalPath
	})
	return records, nil
}

// FindByName returns every file below root whose base name equals name,
// sorted by logical path. Used by the output normalizer to locate freshly
// produced structured files.
func FindByName(fsys fsio.FS, root string, name string) ([]string, error) {
	var paths []string
	err := fsys.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("locating %s files under %s: %w", name, root, err)
	}
	sort.Slice(paths, func(a, b int) bool {
		return pathspec.Logical(paths[a]) < pathspec.Logical(paths[b])
	})
	return paths, nil
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := path.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// OutputPath derives the structured output location for a legacy file: the
// same directory, with the fixed output filename.
func OutputPath(legacyPath string, outputName string) string {
	return filepath.Join(filepath.Dir(legacyPath), outputName)
}
