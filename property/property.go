// Package property provides the change-notifying value container:
// a property wraps a backing Any with an on-changed event that
// fires whenever a successful write produces a different byte
// pattern, including writes made by external change sources.
package property

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/event"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/value"
)

// InterfaceUid identifies the property capability in object
// dispatch tables.
var InterfaceUid = core.MakeHash("velk.Property")

// ExternalSource is the external-change capability a backing Any
// can expose. When a property binds such an Any it subscribes to
// OnDataChanged and re-fires its own on-changed event whenever the
// external source mutates.
type ExternalSource interface {
	OnDataChanged() *event.Event
}

// Deps carries the collaborator constructors a property needs;
// the registry supplies them so properties lazily create their
// event and the external-change relay through the same factories
// as everything else.
type Deps struct {
	NewEvent    func() *event.Event
	NewFunction func() *function.Function
}

// Property is the concrete change-notifying container class.
//
// A property starts unbound; SetAny installs the backing Any
// exactly once. After binding, writes may only mutate the backing
// container, never swap it.
//
// Property state is not internally synchronized; concurrent
// mutation of the same property requires external synchronization.
type Property struct {
	object.Base
	deps      Deps
	data      value.Any
	onChanged *event.Event
	relay     *function.Function
	logger    core.Logger
}

var classInfo = &core.ClassInfo{
	Uid:  core.MakeHash("Property"),
	Name: "Property",
}

// New creates a property outside the registry with the given
// collaborator constructors.
func New(deps Deps, logger core.Logger) *Property {
	p := &Property{}
	p.InitObject(classInfo, core.FlagNone)
	p.Setup(deps, logger)
	return p
}

// Setup finishes construction for registry-created instances.
func (p *Property) Setup(deps Deps, logger core.Logger) {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	p.deps = deps
	p.logger = logger
	p.RegisterInterface(InterfaceUid, p)
}

// OnChanged returns the change event, creating it lazily on first
// access.
func (p *Property) OnChanged() *event.Event {
	if p.onChanged == nil {
		if p.deps.NewEvent == nil {
			return nil
		}
		p.onChanged = p.deps.NewEvent()
	}
	return p.onChanged
}

// Bound reports whether a backing Any has been installed.
func (p *Property) Bound() bool {
	return p.data != nil
}

// SetAny installs the backing Any. The transition is one-way:
// a second call with a different Any fails and logs, a second call
// with the same Any reports NothingToDo.
//
// If the Any exposes the external-change capability, its
// on-data-changed event is wired to fire this property's on-changed
// event with the property as the argument.
func (p *Property) SetAny(backing value.Any) core.ReturnValue {
	if backing == nil {
		return core.InvalidArgument
	}
	if p.data != nil {
		if p.data == backing {
			return core.NothingToDo
		}
		p.logger.Error(
			"property backing value already set",
			core.UidLogField("classUid", p.ClassUid()),
		)
		return core.Fail
	}
	p.data = backing
	if external, ok := backing.(ExternalSource); ok {
		p.wireExternalSource(external)
	}
	return core.Success
}

func (p *Property) wireExternalSource(external ExternalSource) {
	if p.deps.NewFunction == nil {
		return
	}
	relay := p.deps.NewFunction()
	relay.Bind(p, func(ctx any, _ function.FnArgs) value.Any {
		prop := ctx.(*Property)
		prop.fireChanged(function.Immediate)
		return nil
	}, nil)
	p.relay = relay
	external.OnDataChanged().AddHandler(relay, function.Immediate)
}

// Value returns the backing Any for read access, or nil while
// unbound. Mutating the returned container directly bypasses
// change notification.
func (p *Property) Value() value.Any {
	return p.data
}

// SetValue assigns the property from another value container.
// On a byte-pattern change the on-changed event fires with the
// property as the argument and Success is returned; an identical
// pattern reports NothingToDo without firing.
func (p *Property) SetValue(from value.Any, invokeType function.InvokeType) core.ReturnValue {
	if from == nil {
		return core.InvalidArgument
	}
	if p.data == nil {
		p.logger.Warn("set_value on unbound property")
		return core.Fail
	}
	if p.ReadOnly() {
		return core.Fail
	}
	ret := p.data.CopyFrom(from)
	if ret == core.Success {
		p.fireChanged(invokeType)
	}
	return ret
}

// SetData is the raw-bytes equivalent of SetValue.
func (p *Property) SetData(src []byte, typeUid core.Uid, invokeType function.InvokeType) core.ReturnValue {
	if p.data == nil {
		p.logger.Warn("set_data on unbound property")
		return core.Fail
	}
	if p.ReadOnly() {
		return core.Fail
	}
	ret := p.data.SetData(src, typeUid)
	if ret == core.Success {
		p.fireChanged(invokeType)
	}
	return ret
}

func (p *Property) fireChanged(invokeType function.InvokeType) {
	ev := p.OnChanged()
	if ev == nil || !ev.HasHandlers() {
		return
	}
	selfArg := value.NewObjectAny(classInfo.Uid, p)
	ev.Invoke(function.Args(selfArg), invokeType)
}

// Dispose unsubscribes the external-change relay and drops the
// backing value. Invoked on the final strong release.
func (p *Property) Dispose() {
	if p.relay != nil {
		if external, ok := p.data.(ExternalSource); ok {
			external.OnDataChanged().RemoveHandler(p.relay)
		}
		p.relay = nil
	}
	p.data = nil
	p.onChanged = nil
}

// PropertyFrom extracts the property boxed in a change-event
// argument, as delivered to on-changed handlers.
func PropertyFrom(arg value.Any) (*Property, bool) {
	obj, ok := value.ObjectFrom(arg)
	if !ok {
		return nil, false
	}
	prop, ok := obj.(*Property)
	return prop, ok
}
