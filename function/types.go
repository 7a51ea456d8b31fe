// Package function provides the invocation primitive the event and
// property layers compose over: a concrete Function class wrapping
// either a plain callback or a bound trampoline with an owned
// context, invocable immediately or deferred onto the owning
// instance's task queue.
package function

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/value"
)

// InvokeType specifies whether an invocation executes immediately
// on the caller's goroutine or is deferred to the next Update call
// on the owning instance.
type InvokeType uint8

const (
	// Immediate executes the call synchronously and returns its
	// result.
	Immediate InvokeType = 0
	// Deferred captures the call onto the instance's task queue and
	// returns nil immediately.
	Deferred InvokeType = 1
)

// Callable is the plain callback form: no captured state.
type Callable func(args FnArgs) value.Any

// BoundFn is the trampoline callback form, invoked with the bound
// context. Capture is explicit data ownership: the context is
// stored on the function and released through the deleter.
type BoundFn func(ctx any, args FnArgs) value.Any

// ContextDeleter releases a bound context when the function is
// destroyed or rebound.
type ContextDeleter func(ctx any)

// FnArgs is a non-owning view of invocation arguments.
type FnArgs struct {
	args []value.Any
}

// Args builds an argument view over the given containers.
func Args(args ...value.Any) FnArgs {
	return FnArgs{args: args}
}

// At returns the argument at index i, or nil when i is out of
// range.
func (a FnArgs) At(i int) value.Any {
	if i < 0 || i >= len(a.args) {
		return nil
	}
	return a.args[i]
}

// Count returns the number of arguments.
func (a FnArgs) Count() int {
	return len(a.args)
}

// Empty reports whether there are no arguments.
func (a FnArgs) Empty() bool {
	return len(a.args) == 0
}

// Clone deep-clones every argument container, producing the owned
// argument set captured by deferred tasks.
func (a FnArgs) Clone() FnArgs {
	if len(a.args) == 0 {
		return FnArgs{}
	}
	cloned := make([]value.Any, len(a.args))
	for i, arg := range a.args {
		if arg != nil {
			cloned[i] = arg.Clone()
		}
	}
	return FnArgs{args: cloned}
}

// Invocable is anything that can be invoked with an argument view:
// functions, and events (which dispatch to their handlers).
type Invocable interface {
	object.Interface
	Invoke(args FnArgs, invokeType InvokeType) value.Any
}

// Deferrer queues deferred invocations. The registry instance
// implements this; a queued task holds a strong reference on the
// target for its lifetime and deep-cloned arguments.
type Deferrer interface {
	QueueInvoke(target Invocable, args FnArgs) core.ReturnValue
}

// Invoke calls fn with null safety: a nil target returns nil.
func Invoke(fn Invocable, args FnArgs, invokeType InvokeType) value.Any {
	if fn == nil {
		return nil
	}
	return fn.Invoke(args, invokeType)
}
