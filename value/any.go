// Package value provides the type-erased value containers the
// runtime is built on. An Any owns a typed value and declares an
// ordered, non-empty list of compatible type Uids; all access is
// byte-level against one of those Uids, with typed convenience
// accessors layered on top through TypeDesc.
package value

import (
	"github.com/velkstack/velk/core"
)

// Any is the type-erased value container contract.
type Any interface {
	// GetData writes the current value's byte pattern into dst.
	// dst must be exactly the encoded length of the value and
	// typeUid must be in the compatible set; otherwise the call
	// fails without writing.
	GetData(dst []byte, typeUid core.Uid) core.ReturnValue
	// SetData replaces the value from the byte pattern in src.
	// Returns Success when the pattern changed, NothingToDo when it
	// is identical to the current pattern, and Fail without
	// mutation on a size mismatch or incompatible typeUid.
	SetData(src []byte, typeUid core.Uid) core.ReturnValue
	// CopyFrom assigns the value of other using the first Uid in
	// this container's compatible list that other is also
	// compatible with.
	CopyFrom(other Any) core.ReturnValue
	// CompatibleTypes returns the ordered, non-empty list of type
	// Uids this container accepts. The first entry is the primary
	// type.
	CompatibleTypes() []core.Uid
	// Encoded returns the current value's byte pattern. The
	// returned slice must not be mutated.
	Encoded() []byte
	// Clone returns an independent container of the same effective
	// type holding a copy of the current value.
	Clone() Any
}

// IsCompatible reports whether a accepts the given type Uid.
func IsCompatible(a Any, typeUid core.Uid) bool {
	if a == nil {
		return false
	}
	for _, uid := range a.CompatibleTypes() {
		if uid == typeUid {
			return true
		}
	}
	return false
}

// FirstCompatible returns the first Uid in dst's compatible list
// that src is also compatible with. This is the tie-break rule for
// copies between containers with overlapping compatible sets.
func FirstCompatible(dst, src Any) (core.Uid, bool) {
	if dst == nil || src == nil {
		return core.NilUid, false
	}
	for _, uid := range dst.CompatibleTypes() {
		if IsCompatible(src, uid) {
			return uid, true
		}
	}
	return core.NilUid, false
}

// copyFrom is the shared CopyFrom implementation for the container
// types in this package.
func copyFrom(dst, src Any) core.ReturnValue {
	uid, ok := FirstCompatible(dst, src)
	if !ok {
		return core.Fail
	}
	return dst.SetData(src.Encoded(), uid)
}
