package registry

import (
	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/event"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/property"
	"github.com/velkstack/velk/value"
)

var (
	propertyClassInfo = &core.ClassInfo{Uid: ClassIdProperty, Name: "Property"}
	eventClassInfo    = &core.ClassInfo{Uid: ClassIdEvent, Name: "Event"}
	functionClassInfo = &core.ClassInfo{Uid: ClassIdFunction, Name: "Function"}
)

// registerBuiltins installs the built-in classes and the value
// container factories for every built-in primitive type on a fresh
// instance.
func (i *defaultInstance) registerBuiltins() {
	i.RegisterType(object.NewFactory(
		propertyClassInfo,
		func() *property.Property { return &property.Property{} },
		func(p *property.Property, _ core.ObjectFlags) {
			p.Setup(property.Deps{
				NewEvent:    func() *event.Event { return i.CreateEvent() },
				NewFunction: func() *function.Function { return i.CreateFunction() },
			}, i.logger)
		},
	))
	i.RegisterType(object.NewFactory(
		eventClassInfo,
		func() *event.Event { return &event.Event{} },
		func(e *event.Event, _ core.ObjectFlags) {
			e.Setup(i)
		},
	))
	i.RegisterType(object.NewFactory(
		functionClassInfo,
		func() *function.Function { return &function.Function{} },
		func(fn *function.Function, _ core.ObjectFlags) {
			fn.Setup(i)
		},
	))

	registerBuiltinAny(i, value.Bool)
	registerBuiltinAny(i, value.Int8)
	registerBuiltinAny(i, value.Int16)
	registerBuiltinAny(i, value.Int32)
	registerBuiltinAny(i, value.Int64)
	registerBuiltinAny(i, value.Uint8)
	registerBuiltinAny(i, value.Uint16)
	registerBuiltinAny(i, value.Uint32)
	registerBuiltinAny(i, value.Uint64)
	registerBuiltinAny(i, value.Float32)
	registerBuiltinAny(i, value.Float64)
	registerBuiltinAny(i, value.String)
	registerBuiltinAny(i, value.UidType)

	registerBuiltinArrayAny(i, value.Bool)
	registerBuiltinArrayAny(i, value.Int8)
	registerBuiltinArrayAny(i, value.Int16)
	registerBuiltinArrayAny(i, value.Int32)
	registerBuiltinArrayAny(i, value.Int64)
	registerBuiltinArrayAny(i, value.Uint8)
	registerBuiltinArrayAny(i, value.Uint16)
	registerBuiltinArrayAny(i, value.Uint32)
	registerBuiltinArrayAny(i, value.Uint64)
	registerBuiltinArrayAny(i, value.Float32)
	registerBuiltinArrayAny(i, value.Float64)
	registerBuiltinArrayAny(i, value.UidType)
}

func registerBuiltinAny[T any](i *defaultInstance, desc value.TypeDesc[T]) {
	i.RegisterAnyType(desc.Uid, func() value.Any {
		return value.NewAnyValue(desc)
	})
}

func registerBuiltinArrayAny[T any](i *defaultInstance, desc value.TypeDesc[T]) {
	i.RegisterAnyType(value.ArrayUidOf(desc.Name), func() value.Any {
		return value.NewArrayAny(desc)
	})
}
