package scriptdecl

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/convertkit/internal/ctxlog"
	"github.com/vk/convertkit/internal/fsio"
	"github.com/vk/convertkit/internal/object"
)

// Interpreter executes declaration files and tracks the objects they
// materialize. It implements interp.Interpreter.
type Interpreter struct {
	fs fsio.FS

	mu sync.Mutex
	// live maps originating file -> instance name -> object.
	live map[string]map[string]*object.Object
	// retired records declarations whose object was explicitly destroyed.
	// Re-executing a file does not resurrect a retired declaration; this is
	// what makes the pipeline's convergence check decidable.
	retired map[string]map[string]struct{}
}

// New creates an interpreter with an empty live set.
func New(fs fsio.FS) *Interpreter {
	return &Interpreter{
		fs:      fs,
		live:    make(map[string]map[string]*object.Object),
		retired: make(map[string]map[string]struct{}),
	}
}

// Execute parses and runs the declaration file at path, materializing one
// live object per declaration block. Declarations that redeclare a name
// still alive for the same file replace the previous object.
func (i *Interpreter) Execute(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx).With("file", path)

	src, err := i.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return fmt.Errorf("interpreting %s: %w", path, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("interpreting %s: unexpected body type", path)
	}

	objs, err := i.materialize(path, body)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	fileSet := i.live[path]
	if fileSet == nil {
		fileSet = make(map[string]*object.Object)
		i.live[path] = fileSet
	}
	materialized := 0
	for _, obj := range objs {
		if _, gone := i.retired[path][obj.Name]; gone {
			continue
		}
		fileSet[obj.Name] = obj
		materialized++
	}
	if len(fileSet) == 0 {
		delete(i.live, path)
	}
	logger.Debug("Declaration file executed.", "declared", len(objs), "materialized", materialized)
	return nil
}

// materialize turns every top-level block into an object. Top-level
// attributes and label-less blocks are not declarations and are skipped.
func (i *Interpreter) materialize(path string, body *hclsyntax.Body) ([]*object.Object, error) {
	var objs []*object.Object
	for _, block := range body.Blocks {
		if len(block.Labels) != 1 {
			continue
		}

		fields := make(map[string]cty.Value, len(block.Body.Attributes))
		for name, attr := range block.Body.Attributes {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("interpreting %s: attribute %q: %w", path, name, diags)
			}
			fields[name] = val
		}

		obj := &object.Object{
			SourceFile: path,
			Class:      block.Type,
			Name:       block.Labels[0],
			Fields:     fields,
		}
		if mapTo, ok := fields["mapTo"]; ok && mapTo.Type() == cty.String && !mapTo.IsNull() {
			obj.MapTo = mapTo.AsString()
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// LiveObjects returns the objects currently alive for the given file.
func (i *Interpreter) LiveObjects(ctx context.Context, path string) []*object.Object {
	i.mu.Lock()
	defer i.mu.Unlock()

	objs := make([]*object.Object, 0, len(i.live[path]))
	for _, obj := range i.live[path] {
		objs = append(objs, obj)
	}
	return objs
}

// Destroy removes obj from the live set and retires its declaration.
// Destroying an object that was already destroyed, or that was replaced by
// a re-execution, is a no-op.
func (i *Interpreter) Destroy(ctx context.Context, obj *object.Object) {
	i.mu.Lock()
	defer i.mu.Unlock()

	fileSet := i.live[obj.SourceFile]
	if fileSet == nil {
		return
	}
	// Pointer identity: a replaced object with the same name is a different
	// live handle and must not be destroyed through the stale one.
	if current, ok := fileSet[obj.Name]; ok && current == obj {
		delete(fileSet, obj.Name)
		if len(fileSet) == 0 {
			delete(i.live, obj.SourceFile)
		}
		retiredSet := i.retired[obj.SourceFile]
		if retiredSet == nil {
			retiredSet = make(map[string]struct{})
			i.retired[obj.SourceFile] = retiredSet
		}
		retiredSet[obj.Name] = struct{}{}
	}
}
