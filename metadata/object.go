package metadata

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/event"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/property"
)

// Acceptor is implemented by classes that accept a member
// container at creation. The registry builds the container from
// the factory's ClassInfo and stamps it once, right after the
// object is constructed.
type Acceptor interface {
	SetMetadataContainer(container *Container)
}

// Object is the embeddable base for metadata-capable classes: the
// dispatch core plus the lazily populated member container.
type Object struct {
	object.Base
	meta *Container
}

// SetMetadataContainer accepts the runtime member container.
// Only the first call takes effect.
func (o *Object) SetMetadataContainer(container *Container) {
	if o.meta == nil {
		o.meta = container
	}
}

// RegisterMetadataInterface adds the metadata capability to the
// object's dispatch table. Classes call this during setup.
func (o *Object) RegisterMetadataInterface() {
	o.RegisterInterface(InterfaceUid, Metadata(o))
}

// StaticMetadata returns the class's member descriptors, or nil
// when no container was stamped.
func (o *Object) StaticMetadata() []core.MemberDesc {
	if o.meta == nil {
		return nil
	}
	return o.meta.StaticMetadata()
}

// GetProperty looks up a property member by name, or returns nil.
func (o *Object) GetProperty(name string) *property.Property {
	if o.meta == nil {
		return nil
	}
	return o.meta.GetProperty(name)
}

// GetEvent looks up an event member by name, or returns nil.
func (o *Object) GetEvent(name string) *event.Event {
	if o.meta == nil {
		return nil
	}
	return o.meta.GetEvent(name)
}

// GetFunction looks up a function member by name, or returns nil.
func (o *Object) GetFunction(name string) *function.Function {
	if o.meta == nil {
		return nil
	}
	return o.meta.GetFunction(name)
}

// Dispose releases the member container on the final strong
// release.
func (o *Object) Dispose() {
	if o.meta != nil {
		o.meta.Release()
		o.meta = nil
	}
}
