// Package object provides the dispatch and lifetime fabric that all
// runtime classes are assembled from: per-interface identity lookup,
// intrusive reference counting backed by a shared control block, and
// the factory contract used by the registry to construct instances.
package object

import (
	"github.com/velkstack/velk/core"
)

// Interface is the base capability every runtime interface extends.
// An object exposes a set of interfaces, each identified by an
// interface Uid; GetInterface resolves an interface Uid to the
// implementing value on the same object.
type Interface interface {
	// GetInterface returns the interface value registered for the
	// given Uid, or nil if the object does not implement it.
	// For any object and Uid the result is stable: either the same
	// non-nil value on every call, or nil on every call.
	GetInterface(uid core.Uid) any
	// Ref increments the object's intrusive strong reference count.
	Ref()
	// Unref decrements the strong count, destroying the object when
	// the count reaches zero. Calling Ref after the final Unref is
	// undefined.
	Unref()
}

// Object is the base interface for all concrete runtime classes.
type Object interface {
	Interface
	// ClassUid returns the class Uid of this object.
	ClassUid() core.Uid
	// ClassName returns the name of the class.
	ClassName() string
	// Self returns a strong handle to this object, or an invalid
	// handle if the object was not created through the registry.
	Self() Strong
}

// InterfaceUid is the interface Uid of the base Interface capability.
var InterfaceUid = core.MakeHash("velk.Interface")

// ObjectUid is the interface Uid of the base Object interface.
var ObjectUid = core.MakeHash("velk.Object")

// As resolves an interface Uid on i and type-asserts the result to T.
// The zero T and false are returned when the object does not
// implement the interface or the registered value has a different
// concrete type.
func As[T any](i Interface, uid core.Uid) (T, bool) {
	var zero T
	if i == nil {
		return zero, false
	}
	resolved := i.GetInterface(uid)
	if resolved == nil {
		return zero, false
	}
	typed, ok := resolved.(T)
	if !ok {
		return zero, false
	}
	return typed, ok
}

// GetSelf returns a strong handle to o's self, type-asserted to T
// through the object's interface table.
func GetSelf[T any](o Object, uid core.Uid) (T, Strong, bool) {
	var zero T
	if o == nil {
		return zero, Strong{}, false
	}
	self := o.Self()
	if !self.IsValid() {
		return zero, Strong{}, false
	}
	typed, ok := As[T](self.Get(), uid)
	if !ok {
		self.Release()
		return zero, Strong{}, false
	}
	return typed, self, true
}

// Disposable can be implemented by classes that hold resources
// needing release when the object's strong count reaches zero
// (bound function contexts, event subscriptions, member caches).
type Disposable interface {
	Dispose()
}
