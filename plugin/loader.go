package plugin

import (
	"fmt"
	goplugin "plugin"
)

// Library is the handle over an opened plugin shared library. The
// registry keeps the handle alive until the plugin is unloaded and
// releases it last, after the plugin's types are swept, so no
// object of a library-defined type can outlive its code.
type Library interface {
	// Path returns the path the library was opened from.
	Path() string
	// Close releases the handle. Implementations that cannot
	// unload code (the Go runtime does not support unloading
	// plugin libraries) report success and keep the mapping.
	Close() error
}

// Loader resolves a plugin from a shared library path. The loader
// is injectable on the runtime instance so hosts and tests can
// substitute their own resolution strategy.
type Loader interface {
	Load(path string) (Plugin, Library, error)
}

// NewGoPluginLoader returns the default loader built on the Go
// plugin package. The library must export the EntrypointSymbol
// as an Entrypoint function value.
func NewGoPluginLoader() Loader {
	return &goPluginLoader{}
}

type goPluginLoader struct{}

func (l *goPluginLoader) Load(path string) (Plugin, Library, error) {
	lib, err := goplugin.Open(path)
	if err != nil {
		return nil, nil, errLibraryOpenFailed(path, err)
	}

	symbol, err := lib.Lookup(EntrypointSymbol)
	if err != nil {
		return nil, nil, errEntrypointNotFound(path, err)
	}

	entrypoint, ok := symbol.(Entrypoint)
	if !ok {
		// Plugins may also export the raw function type without the
		// named alias.
		raw, isRaw := symbol.(func() Plugin)
		if !isRaw {
			return nil, nil, errEntrypointNotFound(
				path,
				fmt.Errorf("symbol %s is not a plugin entrypoint function", EntrypointSymbol),
			)
		}
		entrypoint = raw
	}

	constructed := entrypoint()
	if constructed == nil {
		return nil, nil, errEntrypointNotFound(
			path,
			fmt.Errorf("entrypoint %s returned no plugin", EntrypointSymbol),
		)
	}
	return constructed, &goPluginLibrary{path: path}, nil
}

// goPluginLibrary wraps the opened library. The Go runtime keeps
// plugin code mapped for the process lifetime; Close records the
// logical release only.
type goPluginLibrary struct {
	path string
}

func (l *goPluginLibrary) Path() string {
	return l.path
}

func (l *goPluginLibrary) Close() error {
	return nil
}
