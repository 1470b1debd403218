// Package pipeline orchestrates one conversion job end to end: validate the
// target root, discover legacy definition files, drive the interpreter to
// extract their objects, persist the object set in the structured format,
// verify convergence, optionally delete the legacy sources, and normalize
// the produced outputs to their canonical converted name.
//
// The pipeline holds no ambient state: the file system, the interpreter and
// the reporter are injected, and all long loops suspend through the
// sched.Yielder handed to Run.
package pipeline
