package plugin

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/velkstack/velk/core"
)

// Manifest describes a plugin library on disk: identity, version,
// load-order dependencies and the path of the shared library that
// exports the entrypoint.
//
// Manifests are written in YAML (.yaml/.yml) or JSON with comments
// and trailing commas (.json/.hujson).
type Manifest struct {
	// Name is the human-readable plugin name.
	Name string `yaml:"name" json:"name"`
	// ClassUid is the canonical textual form of the plugin's
	// class Uid.
	ClassUid string `yaml:"classUid" json:"classUid"`
	// Version is the plugin release version.
	Version Version `yaml:"version" json:"version"`
	// Dependencies lists the textual class Uids of plugins that
	// must be loaded before this one.
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	// Library is the shared library path, relative to the manifest
	// file's directory unless absolute.
	Library string `yaml:"library" json:"library"`

	// sourcePath is the manifest file location, recorded at load
	// time to resolve relative library paths.
	sourcePath string
}

// Uid parses the manifest's textual class Uid.
func (m *Manifest) Uid() (core.Uid, error) {
	return core.ParseUid(m.ClassUid)
}

// DependencyUids parses the manifest's textual dependency Uids.
func (m *Manifest) DependencyUids() ([]core.Uid, error) {
	uids := make([]core.Uid, 0, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		uid, err := core.ParseUid(dep)
		if err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, nil
}

// LibraryPath resolves the shared library path against the
// manifest file's directory.
func (m *Manifest) LibraryPath() string {
	if filepath.IsAbs(m.Library) || m.sourcePath == "" {
		return m.Library
	}
	return filepath.Join(filepath.Dir(m.sourcePath), m.Library)
}

func (m *Manifest) validate(path string) error {
	if m.Name == "" {
		return errManifestInvalid(path, fmt.Errorf("manifest is missing a plugin name"))
	}
	if !core.IsValidUidFormat(m.ClassUid) {
		return errManifestInvalid(path, fmt.Errorf("manifest classUid %q is not a canonical uid", m.ClassUid))
	}
	for _, dep := range m.Dependencies {
		if !core.IsValidUidFormat(dep) {
			return errManifestInvalid(path, fmt.Errorf("manifest dependency %q is not a canonical uid", dep))
		}
	}
	if m.Library == "" {
		return errManifestInvalid(path, fmt.Errorf("manifest is missing a library path"))
	}
	return nil
}

// LoadManifest reads and parses a plugin manifest from the given
// filesystem. The format is selected by file extension.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errManifestNotFound(path, err)
	}

	manifest := &Manifest{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, manifest); err != nil {
			return nil, errManifestInvalid(path, err)
		}
	case ".json", ".hujson":
		standardised, err := hujson.Standardize(data)
		if err != nil {
			return nil, errManifestInvalid(path, err)
		}
		if err := json.Unmarshal(standardised, manifest); err != nil {
			return nil, errManifestInvalid(path, err)
		}
	default:
		return nil, errUnsupportedManifestFormat(path)
	}

	if err := manifest.validate(path); err != nil {
		return nil, err
	}
	manifest.sourcePath = path
	return manifest, nil
}

var manifestExtensions = map[string]bool{
	".yaml":   true,
	".yml":    true,
	".json":   true,
	".hujson": true,
}

// Discover scans a directory (non-recursively) for plugin
// manifests and returns them sorted by file name for deterministic
// load order.
func Discover(fs afero.Fs, dir string) ([]*Manifest, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errManifestNotFound(dir, err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if entry.IsDir() || !manifestExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		manifest, err := LoadManifest(fs, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, manifest)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].sourcePath < manifests[j].sourcePath
	})
	return manifests, nil
}

// OrderByDependencies topologically sorts manifests so that every
// manifest appears after the plugins it depends on. Dependencies
// on plugins outside the set are assumed to be loaded already.
func OrderByDependencies(manifests []*Manifest) ([]*Manifest, error) {
	byUid := map[core.Uid]*Manifest{}
	for _, manifest := range manifests {
		uid, err := manifest.Uid()
		if err != nil {
			return nil, err
		}
		byUid[uid] = manifest
	}

	ordered := make([]*Manifest, 0, len(manifests))
	visited := map[core.Uid]bool{}
	inProgress := map[core.Uid]bool{}

	var visit func(uid core.Uid) error
	visit = func(uid core.Uid) error {
		manifest, inSet := byUid[uid]
		if !inSet || visited[uid] {
			return nil
		}
		if inProgress[uid] {
			names := make([]string, 0, len(manifests))
			for _, m := range manifests {
				names = append(names, m.Name)
			}
			return errDependencyCycle(names)
		}
		inProgress[uid] = true
		deps, err := manifest.DependencyUids()
		if err != nil {
			return err
		}
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		inProgress[uid] = false
		visited[uid] = true
		ordered = append(ordered, manifest)
		return nil
	}

	for _, manifest := range manifests {
		uid, err := manifest.Uid()
		if err != nil {
			return nil, err
		}
		if err := visit(uid); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
