// Package object defines the in-memory representation of a single live
// object materialized by the interpreter from a legacy definition file.
package object

import (
	"github.com/zclconf/go-cty/cty"
)

// Classes of object the converter knows how to recognize. Legacy files may
// declare other classes too; whether those pass through to the output is a
// pipeline policy, not a property of the object itself.
const (
	ClassMaterial        = "Material"
	ClassTerrainMaterial = "TerrainMaterial"
)

// Object is one live object produced by interpreting a legacy file.
//
// An Object must never outlive the convergence pass that created it: the
// pipeline destroys every object immediately after staging it for flush.
// A subsequent execution of the same file finding residual objects is what
// forces the controller back into a full re-scan.
type Object struct {
	// SourceFile is the path of the file whose execution produced this
	// object. It always equals the path the interpreter was invoked with;
	// destruction is scoped by it.
	SourceFile string

	// Class is the declared class/type tag, e.g. "Material".
	Class string

	// Name is the declared instance name.
	Name string

	// MapTo, when non-empty, is the identity the object maps onto in the
	// target runtime. Serialized alongside Name when they differ.
	MapTo string

	// Fields holds the declared attribute values. Values of string type may
	// be filename references; those get their mod virtualization prefix
	// stripped before serialization.
	Fields map[string]cty.Value
}

// Key is the identity an object is staged under in a persistence session:
// MapTo when declared, otherwise Name.
func (o *Object) Key() string {
	if o.MapTo != "" && o.MapTo != "unmapped_mat" {
		return o.MapTo
	}
	return o.Name
}
