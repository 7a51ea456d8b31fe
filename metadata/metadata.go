// Package metadata exposes a class's statically declared members
// (properties, events, functions) at runtime. Interfaces declare
// member descriptor slices; a concrete class aggregates the
// descriptors of all its interfaces and each instance lazily
// materialises member objects from them on first lookup.
package metadata

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/event"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/property"
)

// InterfaceUid identifies the metadata capability in object
// dispatch tables.
var InterfaceUid = core.MakeHash("velk.Metadata")

// MemberFactory creates the member objects a container
// materialises from descriptors. The registry instance implements
// this so members are built through the same built-in classes as
// everything else.
type MemberFactory interface {
	// NewMemberProperty creates a property bound to a fresh Any of
	// the descriptor's type, initialised from the encoded default
	// bytes when present.
	NewMemberProperty(typeUid core.Uid, defaultValue []byte) (*property.Property, core.ReturnValue)
	// NewMemberEvent creates an event member.
	NewMemberEvent() (*event.Event, core.ReturnValue)
	// NewMemberFunction creates a function member.
	NewMemberFunction() (*function.Function, core.ReturnValue)
}

// Metadata is the runtime-visible member surface of a class
// instance.
type Metadata interface {
	// StaticMetadata returns the class's member descriptors.
	StaticMetadata() []core.MemberDesc
	// GetProperty looks up a property member by name, or nil.
	GetProperty(name string) *property.Property
	// GetEvent looks up an event member by name, or nil.
	GetEvent(name string) *event.Event
	// GetFunction looks up a function member by name, or nil.
	GetFunction(name string) *function.Function
}

// ConcatMembers concatenates per-interface member declarations into
// a class member list, preserving declaration order.
func ConcatMembers(lists ...[]core.MemberDesc) []core.MemberDesc {
	var members []core.MemberDesc
	for _, list := range lists {
		members = append(members, list...)
	}
	return members
}

// Container materialises member objects from a class's descriptors
// on first lookup and caches them for the instance's lifetime.
// Lookup is case-sensitive and linear over the descriptor list.
type Container struct {
	owner     object.Object
	members   []core.MemberDesc
	factory   MemberFactory
	propCache *core.Cache[string, *property.Property]
	evCache   *core.Cache[string, *event.Event]
	fnCache   *core.Cache[string, *function.Function]
}

// NewContainer creates the member container for one instance.
// owner is the object the members belong to; function members with
// a bound trampoline are bound with it as context.
func NewContainer(owner object.Object, members []core.MemberDesc, factory MemberFactory) *Container {
	return &Container{
		owner:     owner,
		members:   members,
		factory:   factory,
		propCache: core.NewCache[string, *property.Property](),
		evCache:   core.NewCache[string, *event.Event](),
		fnCache:   core.NewCache[string, *function.Function](),
	}
}

// StaticMetadata returns the class's member descriptors.
func (c *Container) StaticMetadata() []core.MemberDesc {
	return c.members
}

func (c *Container) findDesc(name string, kind core.MemberKind) (core.MemberDesc, bool) {
	for _, desc := range c.members {
		if desc.Kind == kind && desc.Name == name {
			return desc, true
		}
	}
	return core.MemberDesc{}, false
}

// GetProperty returns the named property member, creating it from
// its descriptor on first access. Unknown names return nil.
func (c *Container) GetProperty(name string) *property.Property {
	if cached, ok := c.propCache.Get(name); ok {
		return cached
	}
	desc, ok := c.findDesc(name, core.MemberKindProperty)
	if !ok || c.factory == nil {
		return nil
	}
	prop, ret := c.factory.NewMemberProperty(desc.TypeUid, desc.Default)
	if core.Failed(ret) || prop == nil {
		return nil
	}
	c.propCache.Set(name, prop)
	return prop
}

// GetEvent returns the named event member, creating it from its
// descriptor on first access. Unknown names return nil.
func (c *Container) GetEvent(name string) *event.Event {
	if cached, ok := c.evCache.Get(name); ok {
		return cached
	}
	if _, ok := c.findDesc(name, core.MemberKindEvent); !ok || c.factory == nil {
		return nil
	}
	ev, ret := c.factory.NewMemberEvent()
	if core.Failed(ret) || ev == nil {
		return nil
	}
	c.evCache.Set(name, ev)
	return ev
}

// GetFunction returns the named function member, creating it from
// its descriptor on first access. A descriptor carrying a bound
// trampoline is bound immediately with the owning object as
// context. Unknown names return nil.
func (c *Container) GetFunction(name string) *function.Function {
	if cached, ok := c.fnCache.Get(name); ok {
		return cached
	}
	desc, ok := c.findDesc(name, core.MemberKindFunction)
	if !ok || c.factory == nil {
		return nil
	}
	fn, ret := c.factory.NewMemberFunction()
	if core.Failed(ret) || fn == nil {
		return nil
	}
	if desc.Bind != nil {
		if trampoline, isBound := desc.Bind.(function.BoundFn); isBound {
			fn.Bind(c.owner, trampoline, nil)
		}
	}
	c.fnCache.Set(name, fn)
	return fn
}

// Release drops every materialised member. Called when the owning
// object is destroyed.
func (c *Container) Release() {
	c.propCache = core.NewCache[string, *property.Property]()
	c.evCache = core.NewCache[string, *event.Event]()
	c.fnCache = core.NewCache[string, *function.Function]()
}
