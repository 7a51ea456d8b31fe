package registry

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/plugin"
)

// pluginState is the registry's record of one loaded plugin: the
// plugin itself, the types attributed to it during Initialize (in
// registration order) and the shared library handle when the
// plugin came from disk.
type pluginState struct {
	plugin        plugin.Plugin
	classUid      core.Uid
	name          string
	ownedTypes    []core.Uid
	ownedAnyTypes []core.Uid
	library       plugin.Library
}

func (i *defaultInstance) LoadPlugin(p plugin.Plugin) core.ReturnValue {
	return i.loadPlugin(p, nil)
}

func (i *defaultInstance) loadPlugin(p plugin.Plugin, library plugin.Library) core.ReturnValue {
	if p == nil {
		return core.InvalidArgument
	}
	i.loadMu.Lock()
	defer i.loadMu.Unlock()

	classUid := p.ClassUid()
	i.mu.Lock()
	if _, exists := i.plugins[classUid]; exists {
		i.mu.Unlock()
		return core.NothingToDo
	}
	state := &pluginState{
		plugin:   p,
		classUid: classUid,
		name:     p.Name(),
		library:  library,
	}
	// Mark the in-flight plugin so type registrations made during
	// Initialize are attributed to it.
	i.current = state
	i.mu.Unlock()

	ret := p.Initialize(i)

	i.mu.Lock()
	i.current = nil
	i.mu.Unlock()

	if core.Failed(ret) {
		i.rollbackAttributed(state)
		i.logger.Error(
			"plugin initialization failed",
			core.StringLogField("plugin", state.name),
			core.UidLogField("classUid", classUid),
			core.IntegerLogField("code", int64(ret)),
		)
		return ret
	}

	i.mu.Lock()
	i.plugins[classUid] = state
	i.order = append(i.order, classUid)
	i.mu.Unlock()

	i.logger.Info(
		"plugin loaded",
		core.StringLogField("plugin", state.name),
		core.UidLogField("classUid", classUid),
		core.StringLogField("version", p.Version().String()),
	)
	return core.Success
}

// rollbackAttributed unregisters every type the failed plugin
// managed to register before its Initialize reported failure.
func (i *defaultInstance) rollbackAttributed(state *pluginState) {
	for _, typeUid := range state.ownedTypes {
		i.unregisterTypeUid(typeUid)
	}
	for _, typeUid := range state.ownedAnyTypes {
		i.UnregisterAnyType(typeUid)
	}
}

func (i *defaultInstance) LoadPluginFromPath(path string) core.ReturnValue {
	loaded, library, err := i.loader.Load(path)
	if err != nil {
		i.logger.Error(
			"failed to load plugin library",
			core.StringLogField("path", path),
			core.ErrorLogField("error", err),
		)
		return core.Fail
	}

	ret := i.loadPlugin(loaded, library)
	if ret != core.Success && library != nil {
		// The registry retains the handle only for plugins it
		// keeps.
		if closeErr := library.Close(); closeErr != nil {
			i.logger.Warn(
				"failed to close plugin library after rejected load",
				core.StringLogField("path", path),
				core.ErrorLogField("error", closeErr),
			)
		}
	}
	return ret
}

func (i *defaultInstance) LoadManifests(fs afero.Fs, dir string) core.ReturnValue {
	manifests, err := plugin.Discover(fs, dir)
	if err != nil {
		i.logger.Error(
			"plugin manifest discovery failed",
			core.StringLogField("dir", dir),
			core.ErrorLogField("error", err),
		)
		return core.Fail
	}
	if len(manifests) == 0 {
		return core.NothingToDo
	}

	ordered, err := plugin.OrderByDependencies(manifests)
	if err != nil {
		i.logger.Error(
			"plugin manifests could not be ordered",
			core.StringLogField("dir", dir),
			core.ErrorLogField("error", err),
		)
		return core.Fail
	}

	for _, manifest := range ordered {
		ret := i.LoadPluginFromPath(manifest.LibraryPath())
		if core.Failed(ret) {
			i.logger.Error(
				"plugin from manifest failed to load",
				core.StringLogField("plugin", manifest.Name),
				core.StringLogField("library", manifest.LibraryPath()),
			)
			return ret
		}
	}
	return core.Success
}

func (i *defaultInstance) UnloadPlugin(classUid core.Uid) core.ReturnValue {
	i.loadMu.Lock()
	defer i.loadMu.Unlock()

	i.mu.Lock()
	state, exists := i.plugins[classUid]
	if !exists {
		i.mu.Unlock()
		return core.NothingToDo
	}
	delete(i.plugins, classUid)
	for idx, uid := range i.order {
		if uid == classUid {
			i.order = append(i.order[:idx], i.order[idx+1:]...)
			break
		}
	}
	i.mu.Unlock()

	ret := state.plugin.Shutdown(i)
	var problems error
	if core.Failed(ret) {
		problems = multierr.Append(problems, fmt.Errorf("plugin shutdown reported %s", ret))
	}

	// Sweep the types the plugin registered but did not unregister,
	// in registration order.
	for _, typeUid := range state.ownedTypes {
		i.unregisterTypeUid(typeUid)
	}
	for _, typeUid := range state.ownedAnyTypes {
		i.UnregisterAnyType(typeUid)
	}

	// Drop the plugin reference before the library handle so no
	// code from the library runs after the handle is released.
	state.plugin = nil
	if state.library != nil {
		if err := state.library.Close(); err != nil {
			problems = multierr.Append(problems, err)
		}
		state.library = nil
	}

	if problems != nil {
		i.logger.Warn(
			"plugin unloaded with problems",
			core.StringLogField("plugin", state.name),
			core.UidLogField("classUid", classUid),
			core.ErrorLogField("error", problems),
		)
	} else {
		i.logger.Info(
			"plugin unloaded",
			core.StringLogField("plugin", state.name),
			core.UidLogField("classUid", classUid),
		)
	}
	if core.Failed(ret) {
		return ret
	}
	return core.Success
}

func (i *defaultInstance) FindPlugin(classUid core.Uid) plugin.Plugin {
	i.mu.RLock()
	defer i.mu.RUnlock()
	state, exists := i.plugins[classUid]
	if !exists {
		return nil
	}
	return state.plugin
}

func (i *defaultInstance) PluginCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.plugins)
}

func (i *defaultInstance) LoadedPlugins() []core.Uid {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]core.Uid{}, i.order...)
}
