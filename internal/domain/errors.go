package domain

import (
	"errors"
	"fmt"
)

// HTTPStatusError reports a non-200 response for an HTTP fetch. Any non-200
// status is a hard failure; there is no partial-content or retry handling.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error returns the error message
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d fetching %s", e.StatusCode, e.URL)
}

// ToolNotInstalledError reports that the external image-copy tool could not
// be located. It is fatal for the registry fetch attempt and is not retried.
type ToolNotInstalledError struct {
	Key  string
	Path string
	Err  error
}

// Error returns the error message
func (e *ToolNotInstalledError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf(
			"skopeo executable is not installed: location %q (key %s) is not a directory; "+
				"install the container tooling and point registry.bin_dir or the location provider at its bin directory",
			e.Path, e.Key)
	}
	return fmt.Sprintf(
		"skopeo executable is not installed: no location resolved for key %s; "+
			"install the container tooling and point registry.bin_dir or the location provider at its bin directory",
		e.Key)
}

// Unwrap returns the underlying error
func (e *ToolNotInstalledError) Unwrap() error {
	return e.Err
}

// RegistryInspectError reports a non-zero exit from the image-copy tool's
// inspect subcommand. Output carries the combined stdout+stderr for
// operator logs; it is not meant for end-user messages.
type RegistryInspectError struct {
	Reference string
	Output    string
	Err       error
}

// Error returns the error message
func (e *RegistryInspectError) Error() string {
	return fmt.Sprintf("inspecting %s failed: %s", e.Reference, e.Output)
}

// Unwrap returns the underlying error
func (e *RegistryInspectError) Unwrap() error {
	return e.Err
}

// RegistryCopyError reports a non-zero exit from the image-copy tool's
// copy subcommand.
type RegistryCopyError struct {
	Reference string
	Output    string
	Err       error
}

// Error returns the error message
func (e *RegistryCopyError) Error() string {
	return fmt.Sprintf("copying %s failed: %s", e.Reference, e.Output)
}

// Unwrap returns the underlying error
func (e *RegistryCopyError) Unwrap() error {
	return e.Err
}

// IsToolNotInstalled returns true if the error indicates the image-copy
// tool is missing.
func IsToolNotInstalled(err error) bool {
	var te *ToolNotInstalledError
	return errors.As(err, &te)
}
