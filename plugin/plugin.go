// Package plugin defines the contract loadable plugins implement,
// the manifest format that describes plugin libraries on disk and
// the loader used to resolve a plugin entrypoint from a shared
// library.
package plugin

import (
	"fmt"

	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/object"
	"github.com/velkstack/velk/value"
)

// EntrypointSymbol is the well-known symbol every plugin shared
// library exports. The symbol must be an Entrypoint function value.
const EntrypointSymbol = "VelkPluginEntrypoint"

// Entrypoint is the exported constructor a plugin library provides.
// It returns a newly constructed plugin whose ownership transfers
// to the caller.
type Entrypoint func() Plugin

// Version identifies a plugin release.
type Version struct {
	Major int `yaml:"major" json:"major"`
	Minor int `yaml:"minor" json:"minor"`
	Patch int `yaml:"patch" json:"patch"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Host is the surface of the runtime instance that plugins consume
// during initialization and shutdown: type registration and
// logging. Registrations made during Initialize are attributed to
// the plugin and swept on unload if the plugin does not unregister
// them itself.
type Host interface {
	RegisterType(factory object.Factory) core.ReturnValue
	UnregisterType(factory object.Factory) core.ReturnValue
	RegisterAnyType(typeUid core.Uid, factory func() value.Any) core.ReturnValue
	UnregisterAnyType(typeUid core.Uid) core.ReturnValue
	Log() core.Logger
}

// Plugin is the unit the plugin registry loads and unloads.
type Plugin interface {
	// ClassUid returns the plugin's identity. Loading a second
	// plugin with the same class Uid is a no-op.
	ClassUid() core.Uid
	// Name returns the human-readable plugin name.
	Name() string
	// Version returns the plugin release version.
	Version() Version
	// Dependencies returns the class Uids of plugins that must be
	// loaded before this one.
	Dependencies() []core.Uid
	// Initialize is called when the plugin is loaded. Register
	// types and perform setup here.
	Initialize(host Host) core.ReturnValue
	// Shutdown is called when the plugin is unloaded. Unregister
	// types and clean up here; types registered during Initialize
	// that are still present are swept by the registry afterwards.
	Shutdown(host Host) core.ReturnValue
}
