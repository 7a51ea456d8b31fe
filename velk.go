// Package velk exposes the process-wide runtime instance with an
// explicit lifecycle. The instance must be created with Init and
// torn down with Shutdown; lazy construction is deliberately not
// supported so the instance can never be created after main has
// begun tearing down plugin libraries.
package velk

import (
	"sync"

	"github.com/velkstack/velk/registry"
)

var (
	mu       sync.Mutex
	instance registry.Instance
)

// Init creates the process-wide instance. Calling Init while an
// instance exists returns the existing instance unchanged.
func Init(opts ...registry.Option) registry.Instance {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = registry.New(opts...)
	}
	return instance
}

// Default returns the process-wide instance, or nil before Init or
// after Shutdown. Callers must not retain the result past Shutdown.
func Default() registry.Instance {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Shutdown unloads all plugins in reverse load order, drains any
// remaining deferred work once and drops the process-wide instance.
func Shutdown() {
	mu.Lock()
	inst := instance
	instance = nil
	mu.Unlock()
	if inst == nil {
		return
	}
	loaded := inst.LoadedPlugins()
	for idx := len(loaded) - 1; idx >= 0; idx-- {
		inst.UnloadPlugin(loaded[idx])
	}
	inst.Update()
}
