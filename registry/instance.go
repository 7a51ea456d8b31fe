// Package registry provides the runtime instance: the root object
// that owns the type table, the value-container factories, the
// deferred task queue and the plugin registry, and that constructs
// every object in the system.
package registry

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/event"
	"github.com/velkstack/velk/function"
	"github.com/velkstack/velk/metadata"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/plugin"
	"github.com/velkstack/velk/property"
	"github.com/velkstack/velk/value"
)

// AnyFactory constructs a fresh value container for one type Uid.
type AnyFactory func() value.Any

// Instance is the central registry contract. Registry mutations
// (type and plugin registration) are serialized; creation paths
// read the tables under a shared lock and never block other
// readers.
type Instance interface {
	plugin.Host
	function.Deferrer

	// ClassInfo returns the static description of a registered
	// class, or nil when the class Uid is unknown.
	ClassInfo(classUid core.Uid) *core.ClassInfo
	// Create constructs an instance of a registered class with
	// default flags. The caller owns the returned strong reference;
	// an unknown class Uid returns nil.
	Create(classUid core.Uid) object.Object
	// CreateWithFlags constructs an instance with creation flags.
	CreateWithFlags(classUid core.Uid, flags core.ObjectFlags) object.Object
	// CreateAny constructs a fresh value container for a type Uid,
	// or nil when no factory is registered for it.
	CreateAny(typeUid core.Uid) value.Any
	// CreateProperty constructs a property bound to a fresh Any of
	// the given type, optionally initialised by copying from
	// initial. Returns nil when the type has no Any factory.
	CreateProperty(typeUid core.Uid, initial value.Any) *property.Property
	// CreateEvent constructs a built-in event instance.
	CreateEvent() *event.Event
	// CreateFunction constructs a built-in function instance.
	CreateFunction() *function.Function
	// Update drains the deferred task queue exactly once. Tasks
	// queued during the drain run on the next Update call.
	Update()
	// SetLogger replaces the instance logger.
	SetLogger(logger core.Logger)

	// LoadPlugin loads an in-process plugin, calling Initialize and
	// attributing type registrations made during it.
	LoadPlugin(p plugin.Plugin) core.ReturnValue
	// LoadPluginFromPath opens a plugin shared library, resolves
	// its entrypoint and loads the returned plugin.
	LoadPluginFromPath(path string) core.ReturnValue
	// LoadManifests discovers plugin manifests in a directory and
	// loads them in dependency order.
	LoadManifests(fs afero.Fs, dir string) core.ReturnValue
	// UnloadPlugin shuts a plugin down, sweeps the types it
	// registered and releases its library handle last.
	UnloadPlugin(classUid core.Uid) core.ReturnValue
	// FindPlugin returns a loaded plugin by class Uid, or nil. The
	// result is non-owning; do not retain it across unloads.
	FindPlugin(classUid core.Uid) plugin.Plugin
	// PluginCount returns the number of currently loaded plugins.
	PluginCount() int
	// LoadedPlugins returns the class Uids of loaded plugins in
	// load order.
	LoadedPlugins() []core.Uid
}

// Option configures an instance at creation.
type Option func(*defaultInstance)

// WithLogger installs a logger on the new instance.
func WithLogger(logger core.Logger) Option {
	return func(i *defaultInstance) {
		i.logger = logger
	}
}

// WithLoader installs the shared-library loader used by
// LoadPluginFromPath.
func WithLoader(loader plugin.Loader) Option {
	return func(i *defaultInstance) {
		i.loader = loader
	}
}

type defaultInstance struct {
	// mu guards the type and any-factory tables and the
	// currently-initialising plugin marker. Mutations take the
	// write lock; creation paths take the read lock.
	mu           sync.RWMutex
	types        map[core.Uid]object.Factory
	anyFactories map[core.Uid]AnyFactory

	queue  *deferredQueue
	logger core.Logger

	// loadMu serializes plugin load and unload operations.
	loadMu  sync.Mutex
	plugins map[core.Uid]*pluginState
	order   []core.Uid
	current *pluginState
	loader  plugin.Loader
}

// New creates a runtime instance with the built-in Property, Event
// and Function classes and the value-container factories for every
// built-in primitive type registered.
func New(opts ...Option) Instance {
	inst := &defaultInstance{
		types:        map[core.Uid]object.Factory{},
		anyFactories: map[core.Uid]AnyFactory{},
		queue:        &deferredQueue{},
		plugins:      map[core.Uid]*pluginState{},
	}
	for _, opt := range opts {
		opt(inst)
	}
	if inst.logger == nil {
		inst.logger = core.NewDefaultLogger()
	}
	if inst.loader == nil {
		inst.loader = plugin.NewGoPluginLoader()
	}
	inst.registerBuiltins()
	return inst
}

func (i *defaultInstance) Log() core.Logger {
	return i.logger
}

func (i *defaultInstance) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	i.logger = logger
}

func (i *defaultInstance) RegisterType(factory object.Factory) core.ReturnValue {
	if factory == nil || factory.ClassInfo() == nil {
		return core.InvalidArgument
	}
	classUid := factory.ClassInfo().Uid
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.types[classUid]; exists {
		return core.NothingToDo
	}
	i.types[classUid] = factory
	if i.current != nil {
		i.current.ownedTypes = append(i.current.ownedTypes, classUid)
	}
	return core.Success
}

func (i *defaultInstance) UnregisterType(factory object.Factory) core.ReturnValue {
	if factory == nil || factory.ClassInfo() == nil {
		return core.InvalidArgument
	}
	return i.unregisterTypeUid(factory.ClassInfo().Uid)
}

func (i *defaultInstance) unregisterTypeUid(classUid core.Uid) core.ReturnValue {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.types[classUid]; !exists {
		return core.NothingToDo
	}
	delete(i.types, classUid)
	return core.Success
}

func (i *defaultInstance) RegisterAnyType(typeUid core.Uid, factory func() value.Any) core.ReturnValue {
	if typeUid.IsNil() || factory == nil {
		return core.InvalidArgument
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.anyFactories[typeUid]; exists {
		return core.NothingToDo
	}
	i.anyFactories[typeUid] = AnyFactory(factory)
	if i.current != nil {
		i.current.ownedAnyTypes = append(i.current.ownedAnyTypes, typeUid)
	}
	return core.Success
}

func (i *defaultInstance) UnregisterAnyType(typeUid core.Uid) core.ReturnValue {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.anyFactories[typeUid]; !exists {
		return core.NothingToDo
	}
	delete(i.anyFactories, typeUid)
	return core.Success
}

func (i *defaultInstance) ClassInfo(classUid core.Uid) *core.ClassInfo {
	i.mu.RLock()
	factory, exists := i.types[classUid]
	i.mu.RUnlock()
	if !exists {
		return nil
	}
	return factory.ClassInfo()
}

func (i *defaultInstance) Create(classUid core.Uid) object.Object {
	return i.CreateWithFlags(classUid, core.FlagNone)
}

func (i *defaultInstance) CreateWithFlags(classUid core.Uid, flags core.ObjectFlags) object.Object {
	i.mu.RLock()
	factory, exists := i.types[classUid]
	i.mu.RUnlock()
	if !exists {
		return nil
	}
	obj, block := factory.CreateInstance(flags)
	if obj == nil || block == nil {
		i.logger.Error(
			"type factory produced no instance",
			core.UidLogField("classUid", classUid),
		)
		return nil
	}
	i.finishCreate(obj, block, factory.ClassInfo())
	return obj
}

// finishCreate stamps the self slot with the owning shared handle
// and installs the metadata member container on classes that
// accept one.
func (i *defaultInstance) finishCreate(obj object.Object, block *object.ControlBlock, info *core.ClassInfo) {
	if initable, ok := obj.(object.Initializer); ok {
		self := object.Adopt(obj, block)
		initable.StampSelf(self)
	}
	if acceptor, ok := obj.(metadata.Acceptor); ok && info != nil {
		acceptor.SetMetadataContainer(
			metadata.NewContainer(obj, info.Members, &memberFactory{inst: i}),
		)
	}
}

func (i *defaultInstance) CreateAny(typeUid core.Uid) value.Any {
	i.mu.RLock()
	factory, exists := i.anyFactories[typeUid]
	i.mu.RUnlock()
	if !exists {
		return nil
	}
	return factory()
}

func (i *defaultInstance) CreateProperty(typeUid core.Uid, initial value.Any) *property.Property {
	backing := i.CreateAny(typeUid)
	if backing == nil {
		i.logger.Warn(
			"no value container factory registered for property type",
			core.UidLogField("typeUid", typeUid),
		)
		return nil
	}
	prop := i.createProperty()
	if prop == nil {
		return nil
	}
	if initial != nil {
		// Seed before binding so the initial assignment does not
		// count as a change.
		backing.CopyFrom(initial)
	}
	prop.SetAny(backing)
	return prop
}

func (i *defaultInstance) createProperty() *property.Property {
	obj := i.Create(ClassIdProperty)
	if obj == nil {
		return nil
	}
	prop, ok := obj.(*property.Property)
	if !ok {
		obj.Unref()
		return nil
	}
	return prop
}

func (i *defaultInstance) CreateEvent() *event.Event {
	obj := i.Create(ClassIdEvent)
	if obj == nil {
		return nil
	}
	ev, ok := obj.(*event.Event)
	if !ok {
		obj.Unref()
		return nil
	}
	return ev
}

func (i *defaultInstance) CreateFunction() *function.Function {
	obj := i.Create(ClassIdFunction)
	if obj == nil {
		return nil
	}
	fn, ok := obj.(*function.Function)
	if !ok {
		obj.Unref()
		return nil
	}
	return fn
}

func (i *defaultInstance) QueueInvoke(target function.Invocable, args function.FnArgs) core.ReturnValue {
	return i.queue.enqueue(target, args)
}

func (i *defaultInstance) Update() {
	i.queue.drain(i.logger)
}

// memberFactory adapts the instance to the metadata container's
// member creation contract.
type memberFactory struct {
	inst *defaultInstance
}

func (f *memberFactory) NewMemberProperty(typeUid core.Uid, defaultValue []byte) (*property.Property, core.ReturnValue) {
	backing := f.inst.CreateAny(typeUid)
	if backing == nil {
		return nil, core.Fail
	}
	if len(defaultValue) > 0 {
		backing.SetData(defaultValue, typeUid)
	}
	prop := f.inst.createProperty()
	if prop == nil {
		return nil, core.Fail
	}
	prop.SetAny(backing)
	return prop, core.Success
}

func (f *memberFactory) NewMemberEvent() (*event.Event, core.ReturnValue) {
	ev := f.inst.CreateEvent()
	if ev == nil {
		return nil, core.Fail
	}
	return ev, core.Success
}

func (f *memberFactory) NewMemberFunction() (*function.Function, core.ReturnValue) {
	fn := f.inst.CreateFunction()
	if fn == nil {
		return nil, core.Fail
	}
	return fn, core.Success
}
