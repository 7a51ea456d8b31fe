package object

import (
	"reflect"

	"github.com/velkstack/velk/core"
)

// Factory is the per-class contract the registry uses to construct
// instances. Each concrete class supplies one factory carrying its
// static ClassInfo.
type Factory interface {
	// CreateInstance constructs a new instance with a fresh control
	// block. The returned strong reference (count one) belongs to
	// the caller.
	CreateInstance(flags core.ObjectFlags) (Object, *ControlBlock)
	// ClassInfo returns the static description of the class this
	// factory creates.
	ClassInfo() *core.ClassInfo
	// InstanceSize returns the in-memory size of one instance in
	// bytes, for pool allocators sizing their slabs.
	InstanceSize() uintptr
	// InstanceAlignment returns the alignment requirement of one
	// instance in bytes.
	InstanceAlignment() uintptr
}

// PoolFactory is the optional placement-construction capability for
// factories whose instances participate in pooled allocation. A
// pool keeps destroyed instances and asks the factory to
// re-initialise them in place, so the pool never needs to know the
// concrete type.
type PoolFactory interface {
	Factory
	// ConstructInto re-initialises a previously destroyed pooled
	// instance in place. When block is nil a fresh control block is
	// installed; otherwise the supplied block is attached.
	ConstructInto(obj Object, block *ControlBlock, flags core.ObjectFlags) core.ReturnValue
	// DestroyInPlace tears an instance down without releasing its
	// memory back to the collector, so the pool can reuse it.
	DestroyInPlace(obj Object)
}

// Constructor builds a zeroed, uninitialised instance of a class.
// The factory performs InitObject wiring and block installation.
type Constructor[T any] func() *T

// Initializer is implemented by class values (via the embedded
// Base and the class's own init hook) so factories can finish
// construction generically.
type Initializer interface {
	Object
	InitObject(class *core.ClassInfo, flags core.ObjectFlags)
	AttachBlock(block *ControlBlock)
	StampSelf(s Strong)
	ReleaseSelf()
}

// classFactory is the standard Factory implementation used by all
// built-in and generated classes.
type classFactory[T any] struct {
	info      *core.ClassInfo
	construct Constructor[T]
	setup     func(obj *T, flags core.ObjectFlags)
	size      uintptr
	align     uintptr
}

// NewFactory builds a Factory for class T. The construct callback
// allocates the bare instance; the optional setup callback runs
// after InitObject and is where classes register their interfaces
// and wire collaborators.
func NewFactory[T any](
	info *core.ClassInfo,
	construct Constructor[T],
	setup func(obj *T, flags core.ObjectFlags),
) Factory {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &classFactory[T]{
		info:      info,
		construct: construct,
		setup:     setup,
		size:      t.Size(),
		align:     uintptr(t.Align()),
	}
}

func (f *classFactory[T]) CreateInstance(flags core.ObjectFlags) (Object, *ControlBlock) {
	obj := f.construct()
	initable, ok := any(obj).(Initializer)
	if !ok {
		return nil, nil
	}
	initable.InitObject(f.info, flags)
	if f.setup != nil {
		f.setup(obj, flags)
	}
	block := NewControlBlock(func() {
		if disposable, isDisposable := any(obj).(Disposable); isDisposable {
			disposable.Dispose()
		}
		initable.ReleaseSelf()
	})
	initable.AttachBlock(block)
	return initable, block
}

// ConstructInto re-initialises a pooled instance in place. The
// instance is reset to its zero state and wired exactly as a fresh
// CreateInstance would wire it; a nil block installs a fresh
// control block whose final release tears the instance down
// without returning its memory to the collector.
func (f *classFactory[T]) ConstructInto(obj Object, block *ControlBlock, flags core.ObjectFlags) core.ReturnValue {
	typed, ok := any(obj).(*T)
	if !ok {
		return core.InvalidArgument
	}
	var zero T
	*typed = zero
	initable, ok := any(typed).(Initializer)
	if !ok {
		return core.InvalidArgument
	}
	initable.InitObject(f.info, flags)
	if f.setup != nil {
		f.setup(typed, flags)
	}
	if block == nil {
		block = NewControlBlock(func() {
			f.DestroyInPlace(initable)
		})
	}
	initable.AttachBlock(block)
	return core.Success
}

// DestroyInPlace tears an instance down without releasing its
// memory, so a pool can hand it back to ConstructInto later.
func (f *classFactory[T]) DestroyInPlace(obj Object) {
	if disposable, ok := obj.(Disposable); ok {
		disposable.Dispose()
	}
	if initable, ok := obj.(Initializer); ok {
		initable.ReleaseSelf()
	}
}

func (f *classFactory[T]) ClassInfo() *core.ClassInfo {
	return f.info
}

func (f *classFactory[T]) InstanceSize() uintptr {
	return f.size
}

func (f *classFactory[T]) InstanceAlignment() uintptr {
	return f.align
}
