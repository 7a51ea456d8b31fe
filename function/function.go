package function

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/value"
)

// InterfaceUid identifies the invocable capability in object
// dispatch tables.
var InterfaceUid = core.MakeHash("velk.Function")

// Function is the concrete invocable class. It wraps one of two
// callback modes: a plain Callable set through SetInvokeCallback,
// or a bound trampoline with an owned context set through Bind.
// When both are configured the plain callback wins.
type Function struct {
	object.Base
	callable Callable
	bound    BoundFn
	ctx      any
	deleter  ContextDeleter
	deferrer Deferrer
}

// New creates a function outside the registry. Functions created
// this way cannot defer invocations unless a deferrer is supplied.
func New(deferrer Deferrer) *Function {
	fn := &Function{deferrer: deferrer}
	fn.InitObject(classInfo, core.FlagNone)
	fn.wireInterfaces()
	return fn
}

var classInfo = &core.ClassInfo{
	Uid:  core.MakeHash("Function"),
	Name: "Function",
}

// Setup finishes construction for registry-created instances:
// interface wiring plus the deferrer used for queued invocations.
func (f *Function) Setup(deferrer Deferrer) {
	f.deferrer = deferrer
	f.wireInterfaces()
}

func (f *Function) wireInterfaces() {
	f.RegisterInterface(InterfaceUid, Invocable(f))
	f.RegisterInterface(object.ObjectUid, object.Object(f))
}

// SetInvokeCallback installs the plain callback. It takes priority
// over a bound trampoline.
func (f *Function) SetInvokeCallback(cb Callable) {
	f.callable = cb
}

// Bind installs the trampoline callback with its context and an
// optional deleter for the context. Rebinding releases the
// previous context through its deleter first.
func (f *Function) Bind(ctx any, fn BoundFn, deleter ContextDeleter) {
	f.releaseContext()
	f.ctx = ctx
	f.bound = fn
	f.deleter = deleter
}

// Invoke runs the function. Immediate invocations execute on the
// caller's goroutine and return the result; deferred invocations
// capture cloned arguments onto the owning instance's task queue
// and return nil.
func (f *Function) Invoke(args FnArgs, invokeType InvokeType) value.Any {
	if invokeType == Deferred {
		if f.deferrer == nil {
			return nil
		}
		f.deferrer.QueueInvoke(f, args)
		return nil
	}
	return f.call(args)
}

func (f *Function) call(args FnArgs) value.Any {
	if f.callable != nil {
		return f.callable(args)
	}
	if f.bound != nil {
		return f.bound(f.ctx, args)
	}
	return nil
}

// HasCallback reports whether any callback mode is configured.
func (f *Function) HasCallback() bool {
	return f.callable != nil || f.bound != nil
}

// Dispose releases the bound context. Invoked on the final strong
// release.
func (f *Function) Dispose() {
	f.releaseContext()
	f.callable = nil
}

func (f *Function) releaseContext() {
	if f.deleter != nil && f.ctx != nil {
		f.deleter(f.ctx)
	}
	f.ctx = nil
	f.bound = nil
	f.deleter = nil
}
