// Package scriptdecl is the in-tree implementation of the interp.Interpreter
// contract.
//
// # What It Interprets
//
// Legacy material definition files are scripts of executable declarations.
// This interpreter accepts them in HCL block syntax: the block type is the
// object's class tag, the single label is the instance name, and the block
// attributes become the object's field map.
//
//	Material "rock01" {
//	  mapTo    = "rock01"
//	  version  = 1.5
//	  colorMap = "levels/gridmap/rock_d.dds"
//	}
//
// # Live Object Set
//
// Executing a file materializes its declarations into an in-memory live set
// keyed by originating file. Re-executing a file whose objects are still
// alive replaces them in place, mirroring how the host runtime resolves a
// redeclared name. Destroy removes a single object, is idempotent, and
// retires the declaration: once an object has been destroyed, re-executing
// its file does not resurrect it. Retirement mirrors the host runtime,
// where a declaration whose object was persisted and deleted is shadowed by
// the structured replacement, and it is what lets the pipeline's
// verification scan terminate.
//
// # Relationship To The Pipeline
//
// The pipeline depends only on the interp.Interpreter interface. This
// package is wired in by the CLI entrypoint and by tests; a host runtime
// embedding the pipeline can substitute its own interpreter.
package scriptdecl
