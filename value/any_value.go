package value

import (
	"bytes"

	"github.com/velkstack/velk/core"
)

// AnyValue owns a value of T inline.
type AnyValue[T any] struct {
	desc TypeDesc[T]
	val  T
}

// NewAnyValue creates a container holding the zero value of T.
func NewAnyValue[T any](desc TypeDesc[T]) *AnyValue[T] {
	return &AnyValue[T]{desc: desc}
}

// NewAnyValueOf creates a container holding the given value.
func NewAnyValueOf[T any](desc TypeDesc[T], v T) *AnyValue[T] {
	return &AnyValue[T]{desc: desc, val: v}
}

// Get returns the current typed value.
func (a *AnyValue[T]) Get() T {
	return a.val
}

// Set assigns a typed value, reporting NothingToDo when the byte
// pattern is unchanged.
func (a *AnyValue[T]) Set(v T) core.ReturnValue {
	return a.SetData(a.desc.Encode(v), a.desc.Uid)
}

func (a *AnyValue[T]) GetData(dst []byte, typeUid core.Uid) core.ReturnValue {
	if !IsCompatible(a, typeUid) {
		return core.Fail
	}
	encoded := a.desc.Encode(a.val)
	if len(dst) != len(encoded) {
		return core.Fail
	}
	copy(dst, encoded)
	return core.Success
}

func (a *AnyValue[T]) SetData(src []byte, typeUid core.Uid) core.ReturnValue {
	if !IsCompatible(a, typeUid) {
		return core.Fail
	}
	if a.desc.Size > 0 && len(src) != a.desc.Size {
		return core.Fail
	}
	decoded, ok := a.desc.Decode(src)
	if !ok {
		return core.Fail
	}
	if bytes.Equal(src, a.desc.Encode(a.val)) {
		return core.NothingToDo
	}
	a.val = decoded
	return core.Success
}

func (a *AnyValue[T]) CopyFrom(other Any) core.ReturnValue {
	return copyFrom(a, other)
}

func (a *AnyValue[T]) CompatibleTypes() []core.Uid {
	return a.desc.CompatibleTypes()
}

func (a *AnyValue[T]) Encoded() []byte {
	return a.desc.Encode(a.val)
}

func (a *AnyValue[T]) Clone() Any {
	return NewAnyValueOf(a.desc, a.val)
}

// AnyRef borrows external storage of a T. The lifetime of the
// storage is the caller's responsibility; reads and writes go
// straight through the pointer so external mutation is always
// visible.
type AnyRef[T any] struct {
	desc TypeDesc[T]
	ptr  *T
}

// NewAnyRef creates a container borrowing the given storage.
func NewAnyRef[T any](desc TypeDesc[T], ptr *T) *AnyRef[T] {
	return &AnyRef[T]{desc: desc, ptr: ptr}
}

// Get returns the current value behind the borrowed pointer.
func (a *AnyRef[T]) Get() T {
	return *a.ptr
}

// Set writes a typed value through the borrowed pointer.
func (a *AnyRef[T]) Set(v T) core.ReturnValue {
	return a.SetData(a.desc.Encode(v), a.desc.Uid)
}

func (a *AnyRef[T]) GetData(dst []byte, typeUid core.Uid) core.ReturnValue {
	if !IsCompatible(a, typeUid) {
		return core.Fail
	}
	encoded := a.desc.Encode(*a.ptr)
	if len(dst) != len(encoded) {
		return core.Fail
	}
	copy(dst, encoded)
	return core.Success
}

func (a *AnyRef[T]) SetData(src []byte, typeUid core.Uid) core.ReturnValue {
	if !IsCompatible(a, typeUid) {
		return core.Fail
	}
	if a.desc.Size > 0 && len(src) != a.desc.Size {
		return core.Fail
	}
	decoded, ok := a.desc.Decode(src)
	if !ok {
		return core.Fail
	}
	if bytes.Equal(src, a.desc.Encode(*a.ptr)) {
		return core.NothingToDo
	}
	*a.ptr = decoded
	return core.Success
}

func (a *AnyRef[T]) CopyFrom(other Any) core.ReturnValue {
	return copyFrom(a, other)
}

func (a *AnyRef[T]) CompatibleTypes() []core.Uid {
	return a.desc.CompatibleTypes()
}

func (a *AnyRef[T]) Encoded() []byte {
	return a.desc.Encode(*a.ptr)
}

// Clone detaches from the borrowed storage: the result is an
// independent owning container with the current value.
func (a *AnyRef[T]) Clone() Any {
	return NewAnyValueOf(a.desc, *a.ptr)
}
