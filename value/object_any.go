package value

import (
	"github.com/velkstack/velk/core"
)

// ObjectAny boxes an object reference so that objects can travel
// through the byte-level Any contract as invocation arguments
// (most notably a property passed to its own change handlers).
//
// The container has reference semantics: Clone shares the boxed
// reference and the byte-level operations are not supported.
type ObjectAny struct {
	uid core.Uid
	obj any
}

// NewObjectAny boxes obj under the given type (usually class) Uid.
func NewObjectAny(uid core.Uid, obj any) *ObjectAny {
	return &ObjectAny{uid: uid, obj: obj}
}

// Object returns the boxed reference.
func (a *ObjectAny) Object() any {
	return a.obj
}

func (a *ObjectAny) GetData(dst []byte, typeUid core.Uid) core.ReturnValue {
	return core.Fail
}

func (a *ObjectAny) SetData(src []byte, typeUid core.Uid) core.ReturnValue {
	return core.Fail
}

func (a *ObjectAny) CopyFrom(other Any) core.ReturnValue {
	boxed, ok := other.(*ObjectAny)
	if !ok || boxed.uid != a.uid {
		return core.Fail
	}
	if boxed.obj == a.obj {
		return core.NothingToDo
	}
	a.obj = boxed.obj
	return core.Success
}

func (a *ObjectAny) CompatibleTypes() []core.Uid {
	return []core.Uid{a.uid}
}

func (a *ObjectAny) Encoded() []byte {
	return nil
}

func (a *ObjectAny) Clone() Any {
	return &ObjectAny{uid: a.uid, obj: a.obj}
}

// ObjectFrom unboxes the object reference carried by an Any,
// returning false when the container is not an object box.
func ObjectFrom(a Any) (any, bool) {
	boxed, ok := a.(*ObjectAny)
	if !ok {
		return nil, false
	}
	return boxed.obj, true
}
