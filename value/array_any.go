package value

import (
	"bytes"

	"github.com/velkstack/velk/core"
)

// Array is the element-level capability exposed by sequence
// containers in addition to the base Any contract.
type Array interface {
	// ArraySize returns the number of elements.
	ArraySize() int
	// GetAt reads the element at index into out.
	GetAt(index int, out Any) core.ReturnValue
	// SetAt writes v to the element at index.
	SetAt(index int, v Any) core.ReturnValue
	// PushBack appends v to the end.
	PushBack(v Any) core.ReturnValue
	// EraseAt removes the element at index.
	EraseAt(index int) core.ReturnValue
	// ClearArray removes all elements.
	ClearArray()
	// SetFromBuffer bulk-sets contents from a packed element buffer.
	SetFromBuffer(data []byte, count int, elementUid core.Uid) core.ReturnValue
	// ElementType returns the element type Uid.
	ElementType() core.Uid
}

// ArrayUidOf derives the array type Uid for an element type name.
func ArrayUidOf(elementName string) core.Uid {
	return core.MakeHash(elementName + "[]")
}

// ArrayAny owns a contiguous sequence of T. The base Any contract
// operates on the packed byte pattern of the whole sequence; the
// Array capability provides element-level access.
type ArrayAny[T any] struct {
	desc     TypeDesc[T]
	arrayUid core.Uid
	elems    []T
}

// NewArrayAny creates an empty sequence container for elements
// described by desc.
func NewArrayAny[T any](desc TypeDesc[T]) *ArrayAny[T] {
	return &ArrayAny[T]{
		desc:     desc,
		arrayUid: ArrayUidOf(desc.Name),
	}
}

// NewArrayAnyOf creates a sequence container holding a copy of the
// given elements.
func NewArrayAnyOf[T any](desc TypeDesc[T], elems []T) *ArrayAny[T] {
	arr := NewArrayAny(desc)
	arr.elems = append(arr.elems, elems...)
	return arr
}

// Elements returns a copy of the current elements.
func (a *ArrayAny[T]) Elements() []T {
	return append([]T{}, a.elems...)
}

func (a *ArrayAny[T]) ArraySize() int {
	return len(a.elems)
}

func (a *ArrayAny[T]) GetAt(index int, out Any) core.ReturnValue {
	if index < 0 || index >= len(a.elems) {
		return core.InvalidArgument
	}
	if out == nil {
		return core.InvalidArgument
	}
	ret := out.SetData(a.desc.Encode(a.elems[index]), a.desc.Uid)
	if core.Failed(ret) {
		return ret
	}
	return core.Success
}

func (a *ArrayAny[T]) SetAt(index int, v Any) core.ReturnValue {
	if index < 0 || index >= len(a.elems) {
		return core.InvalidArgument
	}
	elem, ok := a.desc.Get(v)
	if !ok {
		return core.Fail
	}
	if bytes.Equal(a.desc.Encode(elem), a.desc.Encode(a.elems[index])) {
		return core.NothingToDo
	}
	a.elems[index] = elem
	return core.Success
}

func (a *ArrayAny[T]) PushBack(v Any) core.ReturnValue {
	elem, ok := a.desc.Get(v)
	if !ok {
		return core.Fail
	}
	a.elems = append(a.elems, elem)
	return core.Success
}

func (a *ArrayAny[T]) EraseAt(index int) core.ReturnValue {
	if index < 0 || index >= len(a.elems) {
		return core.InvalidArgument
	}
	a.elems = append(a.elems[:index], a.elems[index+1:]...)
	return core.Success
}

func (a *ArrayAny[T]) ClearArray() {
	a.elems = a.elems[:0]
}

func (a *ArrayAny[T]) SetFromBuffer(data []byte, count int, elementUid core.Uid) core.ReturnValue {
	if elementUid != a.desc.Uid {
		return core.Fail
	}
	if a.desc.Size == 0 {
		// Variable-length elements have no packed form.
		return core.InvalidArgument
	}
	if count < 0 || len(data) != count*a.desc.Size {
		return core.Fail
	}
	elems := make([]T, 0, count)
	for i := 0; i < count; i++ {
		elem, ok := a.desc.Decode(data[i*a.desc.Size : (i+1)*a.desc.Size])
		if !ok {
			return core.Fail
		}
		elems = append(elems, elem)
	}
	a.elems = elems
	return core.Success
}

func (a *ArrayAny[T]) ElementType() core.Uid {
	return a.desc.Uid
}

func (a *ArrayAny[T]) GetData(dst []byte, typeUid core.Uid) core.ReturnValue {
	if !IsCompatible(a, typeUid) {
		return core.Fail
	}
	encoded := a.Encoded()
	if len(dst) != len(encoded) {
		return core.Fail
	}
	copy(dst, encoded)
	return core.Success
}

func (a *ArrayAny[T]) SetData(src []byte, typeUid core.Uid) core.ReturnValue {
	if !IsCompatible(a, typeUid) {
		return core.Fail
	}
	if a.desc.Size == 0 {
		return core.InvalidArgument
	}
	if len(src)%a.desc.Size != 0 {
		return core.Fail
	}
	if bytes.Equal(src, a.Encoded()) {
		return core.NothingToDo
	}
	return a.SetFromBuffer(src, len(src)/a.desc.Size, a.desc.Uid)
}

func (a *ArrayAny[T]) CopyFrom(other Any) core.ReturnValue {
	return copyFrom(a, other)
}

func (a *ArrayAny[T]) CompatibleTypes() []core.Uid {
	return []core.Uid{a.arrayUid}
}

func (a *ArrayAny[T]) Encoded() []byte {
	var packed []byte
	for _, elem := range a.elems {
		packed = append(packed, a.desc.Encode(elem)...)
	}
	return packed
}

func (a *ArrayAny[T]) Clone() Any {
	return NewArrayAnyOf(a.desc, a.elems)
}
