// Package persist implements the persistence session that batches extracted
// objects and flushes them to the structured output format.
//
// A session lives for exactly one convergence pass: open on pass start,
// accumulate via MarkDirty, one Flush after the full file set is processed,
// Close on pass end (guaranteed by the caller even on early return).
package persist

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/discovery"
	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/object"
	"github.com/vk/convertkit/internal/pathspec"
)

// Session stages objects for a single convergence pass and flushes them to
// one structured output file per originating directory.
type Session struct {
	fs         fsio.FS
	outputName string

	// staged maps output path -> object key -> serializable value.
	staged map[string]map[string]cty.Value

	collisions int
	closed     bool
	flushed    bool
}

// NewSession opens a session. outputName is the fixed filename flushed into
// each originating file's directory.
func NewSession(fs fsio.FS, outputName string) *Session {
	return &Session{
		fs:         fs,
		outputName: outputName,
		staged:     make(map[string]map[string]cty.Value),
	}
}

// MarkDirty stages one object for flush. Filename-valued fields get their
// mod virtualization prefix stripped so the output addresses files the way
// the installed runtime does. Staging two objects under the same identity
// for the same output resolves last-write-wins with a logged warning.
func (s *Session) MarkDirty(ctx context.Context, obj *object.Object) {
	if s.closed {
		panic("persist: MarkDirty on closed session")
	}
	logger := ctxlog.FromContext(ctx)

	outPath := discovery.OutputPath(obj.SourceFile, s.outputName)
	doc := s.staged[outPath]
	if doc == nil {
		doc = make(map[string]cty.Value)
		s.staged[outPath] = doc
	}

	key := obj.Key()
	if _, exists := doc[key]; exists {
		s.collisions++
		logger.Warn("Duplicate object identity staged, keeping the later declaration.",
			"identity", key, "file", obj.SourceFile)
	}
	doc[key] = serializable(obj)
}

// Collisions reports how many duplicate identities were resolved so far.
func (s *Session) Collisions() int {
	return s.collisions
}

// Flush writes every staged document to its output path, merging over any
// output produced by an earlier pass. It is called once per pass.
func (s *Session) Flush(ctx context.Context) error {
	if s.closed {
		panic("persist: Flush on closed session")
	}
	if s.flushed {
		panic("persist: Flush called twice in one pass")
	}
	s.flushed = true
	logger := ctxlog.FromContext(ctx)

	// Deterministic write order for logs and tests.
	paths := make([]string, 0, len(s.staged))
	for p := range s.staged {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, outPath := range paths {
		doc := s.staged[outPath]
		if err := s.writeDocument(outPath, doc); err != nil {
			return fmt.Errorf("flushing %s: %w", outPath, err)
		}
		logger.Debug("Flushed structured output.", "path", outPath, "objects", len(doc))
	}
	logger.Info("💾 Session flushed.", "outputs", len(paths))
	return nil
}

// Close releases the session. Closing an already-closed session is a no-op
// so callers can pair a deferred Close with an explicit one.
func (s *Session) Close(ctx context.Context) {
	if s.closed {
		return
	}
	s.closed = true
	s.staged = nil
	ctxlog.FromContext(ctx).Debug("Session closed.")
}

// writeDocument merges doc over the existing output file, if any, and writes
// the combined JSON document.
func (s *Session) writeDocument(outPath string, doc map[string]cty.Value) error {
	merged := make(map[string]cty.Value, len(doc))

	if existing, err := s.fs.ReadFile(outPath); err == nil && len(existing) > 0 {
		impliedType, err := ctyjson.ImpliedType(existing)
		if err != nil {
			return fmt.Errorf("reading back existing output: %w", err)
		}
		val, err := ctyjson.Unmarshal(existing, impliedType)
		if err != nil {
			return fmt.Errorf("reading back existing output: %w", err)
		}
		if val.Type().IsObjectType() {
			for key, objVal := range val.AsValueMap() {
				merged[key] = objVal
			}
		}
	}

	for key, objVal := range doc {
		merged[key] = objVal
	}

	docVal := cty.ObjectVal(merged)
	data, err := ctyjson.Marshal(docVal, docVal.Type())
	if err != nil {
		return fmt.Errorf("serializing output document: %w", err)
	}
	return s.fs.WriteFile(outPath, data)
}

// serializable builds the output value for one object: its field map plus
// the identity attributes, filename fields normalized.
func serializable(obj *object.Object) cty.Value {
	attrs := make(map[string]cty.Value, len(obj.Fields)+3)
	for name, val := range obj.Fields {
		attrs[name] = normalizeFilename(val)
	}
	attrs["name"] = cty.StringVal(obj.Name)
	attrs["class"] = cty.StringVal(obj.Class)
	if obj.MapTo != "" {
		attrs["mapTo"] = cty.StringVal(obj.MapTo)
	}
	return cty.ObjectVal(attrs)
}

// normalizeFilename strips the mod virtualization prefix from string values
// that look like file references. Non-string and separator-less values pass
// through untouched.
func normalizeFilename(val cty.Value) cty.Value {
	if val.IsNull() || val.Type() != cty.String {
		return val
	}
	str := val.AsString()
	if !strings.ContainsAny(str, `/\`) {
		return val
	}
	logical := pathspec.Logical(str)
	if logical == filepath.ToSlash(str) {
		return val
	}
	return cty.StringVal(logical)
}
