package object

import (
	"github.com/velkstack/velk/core"
)

// ifaceEntry is one row of an object's interface table.
type ifaceEntry struct {
	uid   core.Uid
	iface any
}

// Base is the embeddable dispatch core for concrete runtime
// classes. It stores the class description, the creation flags,
// the interface table used by GetInterface and the control block
// that carries the intrusive strong count.
//
// Embedding types register their interfaces during construction:
//
//	w := &Widget{}
//	w.InitObject(classInfo, flags)
//	w.RegisterInterface(widgetUid, w)
//
// The table is append-only after construction, which is what makes
// GetInterface results stable for the object's whole lifetime.
type Base struct {
	class  *core.ClassInfo
	flags  core.ObjectFlags
	block  *ControlBlock
	ifaces []ifaceEntry
	self   Weak
}

// InitObject initialises the dispatch core with the class
// description and creation flags. Must be called exactly once
// before the object is published.
func (b *Base) InitObject(class *core.ClassInfo, flags core.ObjectFlags) {
	b.class = class
	b.flags = flags
	b.ifaces = append(b.ifaces, ifaceEntry{uid: InterfaceUid, iface: Interface(b)})
}

// RegisterInterface adds an interface Uid to the object's dispatch
// table. Registering a Uid twice keeps the first entry so that
// GetInterface identity stays stable.
func (b *Base) RegisterInterface(uid core.Uid, iface any) {
	for _, entry := range b.ifaces {
		if entry.uid == uid {
			return
		}
	}
	b.ifaces = append(b.ifaces, ifaceEntry{uid: uid, iface: iface})
}

// GetInterface resolves an interface Uid against the dispatch
// table. The table is a small flat slice, so lookup is linear over
// the handful of interfaces a class implements.
func (b *Base) GetInterface(uid core.Uid) any {
	for _, entry := range b.ifaces {
		if entry.uid == uid {
			return entry.iface
		}
	}
	return nil
}

// Ref increments the intrusive strong count.
func (b *Base) Ref() {
	if b.block != nil {
		b.block.IncStrong()
	}
}

// Unref decrements the intrusive strong count, destroying the
// object on the final release.
func (b *Base) Unref() {
	if b.block != nil {
		b.block.DecStrong()
	}
}

// ClassUid returns the class Uid of this object.
func (b *Base) ClassUid() core.Uid {
	if b.class == nil {
		return core.NilUid
	}
	return b.class.Uid
}

// ClassName returns the name of the class.
func (b *Base) ClassName() string {
	if b.class == nil {
		return ""
	}
	return b.class.Name
}

// ClassInfo returns the static class description.
func (b *Base) ClassInfo() *core.ClassInfo {
	return b.class
}

// Flags returns the creation flags.
func (b *Base) Flags() core.ObjectFlags {
	return b.flags
}

// ReadOnly reports whether the object was created read-only.
func (b *Base) ReadOnly() bool {
	return b.flags.ReadOnly()
}

// Self promotes the stamped self reference to a strong handle.
// The returned handle is invalid when the object was not created
// through the registry or is already tearing down.
func (b *Base) Self() Strong {
	strong, ok := b.self.Lock()
	if !ok {
		return Strong{}
	}
	return strong
}

// AttachBlock installs the control block that owns this object.
// Called by factories during creation.
func (b *Base) AttachBlock(block *ControlBlock) {
	b.block = block
}

// Block returns the control block owning this object.
func (b *Base) Block() *ControlBlock {
	return b.block
}

// StampSelf records a weak observer of the object's own shared
// handle. Called by the registry after installing the control
// block; the self slot is weak so an object never keeps itself
// alive.
func (b *Base) StampSelf(s Strong) {
	b.self = s.Weak()
}

// ReleaseSelf drops the stamped weak self reference. Called during
// teardown.
func (b *Base) ReleaseSelf() {
	b.self.Release()
}
