// Package interp defines the contract between the conversion pipeline and
// the external script interpreter that executes legacy definition files.
//
// The pipeline never parses legacy declarations itself. It only drives an
// Interpreter and observes the live object set the interpreter maintains.
// Production wiring plugs in the in-tree declaration interpreter (package
// scriptdecl); tests plug in fakes.
package interp

import (
	"context"

	"github.com/vk/convertkit/internal/object"
)

// Interpreter executes legacy definition files and tracks the live objects
// they materialize.
type Interpreter interface {
	// Execute runs the file at path. It may create zero or more named
	// objects as a side effect. An error means the file could not be
	// interpreted at all; the pipeline logs it and moves on (a per-file
	// failure never fails the batch). The pipeline never calls Execute for
	// zero-byte files.
	Execute(ctx context.Context, path string) error

	// LiveObjects returns the objects currently alive whose recorded
	// originating file equals path.
	LiveObjects(ctx context.Context, path string) []*object.Object

	// Destroy removes one object from the live set. It is idempotent:
	// destroying an already-destroyed handle is a no-op.
	Destroy(ctx context.Context, obj *object.Object)
}
