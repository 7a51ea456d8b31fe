package plugin

import "fmt"

type ErrorReasonCode string

const (
	// ErrorReasonCodeManifestNotFound is provided when a manifest
	// file cannot be read from the supplied filesystem.
	ErrorReasonCodeManifestNotFound ErrorReasonCode = "manifest_not_found"
	// ErrorReasonCodeManifestInvalid is provided when a manifest
	// file cannot be parsed or is missing required fields.
	ErrorReasonCodeManifestInvalid ErrorReasonCode = "manifest_invalid"
	// ErrorReasonCodeUnsupportedManifestFormat is provided when a
	// manifest file extension maps to no known format.
	ErrorReasonCodeUnsupportedManifestFormat ErrorReasonCode = "unsupported_manifest_format"
	// ErrorReasonCodeLibraryOpenFailed is provided when the shared
	// library at the manifest path cannot be opened.
	ErrorReasonCodeLibraryOpenFailed ErrorReasonCode = "library_open_failed"
	// ErrorReasonCodeEntrypointNotFound is provided when the
	// well-known entrypoint symbol is missing or has the wrong type.
	ErrorReasonCodeEntrypointNotFound ErrorReasonCode = "entrypoint_not_found"
	// ErrorReasonCodeDependencyCycle is provided when manifests
	// declare dependencies that cannot be ordered.
	ErrorReasonCodeDependencyCycle ErrorReasonCode = "dependency_cycle"
)

// LoadError represents an error that occurred while reading plugin
// manifests or resolving a plugin entrypoint from a shared library.
type LoadError struct {
	ReasonCode ErrorReasonCode
	Path       string
	Err        error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("plugin load error (%s): %s: %s", e.ReasonCode, e.Path, e.Err.Error())
	}
	return fmt.Sprintf("plugin load error (%s): %s", e.ReasonCode, e.Err.Error())
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func errManifestNotFound(path string, err error) error {
	return &LoadError{
		ReasonCode: ErrorReasonCodeManifestNotFound,
		Path:       path,
		Err:        err,
	}
}

func errManifestInvalid(path string, err error) error {
	return &LoadError{
		ReasonCode: ErrorReasonCodeManifestInvalid,
		Path:       path,
		Err:        err,
	}
}

func errUnsupportedManifestFormat(path string) error {
	return &LoadError{
		ReasonCode: ErrorReasonCodeUnsupportedManifestFormat,
		Path:       path,
		Err:        fmt.Errorf("manifest files must be yaml or json"),
	}
}

func errLibraryOpenFailed(path string, err error) error {
	return &LoadError{
		ReasonCode: ErrorReasonCodeLibraryOpenFailed,
		Path:       path,
		Err:        err,
	}
}

func errEntrypointNotFound(path string, err error) error {
	return &LoadError{
		ReasonCode: ErrorReasonCodeEntrypointNotFound,
		Path:       path,
		Err:        err,
	}
}

func errDependencyCycle(names []string) error {
	return &LoadError{
		ReasonCode: ErrorReasonCodeDependencyCycle,
		Err:        fmt.Errorf("dependency cycle among plugins %v", names),
	}
}
