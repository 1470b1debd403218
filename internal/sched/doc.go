// Package sched drives a conversion job as a long-running, cooperatively
// scheduled unit of work.
//
// # Why Sched Exists
//
// The pipeline runs interleaved with a host's main loop, not on parallel
// worker threads. Instead of scattering ad hoc sleep calls through the
// stages, every potentially long loop declares explicit suspension points by
// calling Yielder.Yield: once per object while staging, once per file while
// verifying, once per file while deleting or renaming. No stretch of work
// between two yields is unbounded.
//
// # How It Works
//
// A Task is started on its own goroutine but gated: each Yield blocks until
// the host grants a step via Handle.Tick. A host that does not need
// fine-grained interleaving uses Run, which leaves the gate open and turns
// every yield into a plain cancellation checkpoint.
//
// # Cancellation
//
// Stopping a handle cancels the task's context; the task observes it at the
// next suspension point and unwinds through its deferred cleanup. That is
// what guarantees a cancelled job leaves the persistence session closed and
// never leaves a file half-renamed.
package sched
