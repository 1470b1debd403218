package testutil

import (
	"context"
	"sync"

	"github.com/vk/convertkit/internal/object"
)

// FakeInterpreter is a scripted interp.Interpreter. The Generate hook
// decides what objects the n-th execution of a file materializes, which is
// how tests simulate both well-behaved extraction and the pathological
// re-entrant case where a file keeps yielding live objects.
type FakeInterpreter struct {
	// Generate returns the objects created by execution number n (starting
	// at 1) of path. A nil Generate materializes nothing.
	Generate func(path string, n int) []*object.Object

	// ExecuteErr, when set, makes Execute fail for the given paths.
	ExecuteErr map[string]error

	mu         sync.Mutex
	live       map[string][]*object.Object
	executions map[string]int
}

// NewFakeInterpreter creates an empty fake.
func NewFakeInterpreter() *FakeInterpreter {
	return &FakeInterpreter{
		live:       make(map[string][]*object.Object),
		executions: make(map[string]int),
	}
}

// Executions reports how many times path was executed.
func (f *FakeInterpreter) Executions(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executions[path]
}

func (f *FakeInterpreter) Execute(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.executions[path]++
	if err := f.ExecuteErr[path]; err != nil {
		return err
	}
	if f.Generate != nil {
		f.live[path] = append(f.live[path], f.Generate(path, f.executions[path])...)
	}
	return nil
}

func (f *FakeInterpreter) LiveObjects(ctx context.Context, path string) []*object.Object {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*object.Object, len(f.live[path]))
	copy(out, f.live[path])
	return out
}

func (f *FakeInterpreter) Destroy(ctx context.Context, obj *object.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()

	objs := f.live[obj.SourceFile]
	for i, candidate := range objs {
		if candidate == obj {
			f.live[obj.SourceFile] = append(objs[:i], objs[i+1:]...)
			return
		}
	}
}
