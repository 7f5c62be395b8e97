// Package target models toolchain platform triples and the naming of
// per-target release artifacts.
//
// A target is an opaque platform identifier of the form
// "architecture-vendor-os[-abi]" (e.g. "x86_64-unknown-linux-gnu"). The
// package derives the platform-specific binary filename and the archive
// filename for each target; both functions are pure and drive the uniqueness
// guarantees of the release pipeline.
package target

import (
	"errors"
	"fmt"
	"strings"
)

// Common target errors
var (
	ErrEmptyTarget     = errors.New("target is empty")
	ErrMalformedTarget = errors.New("target must have at least architecture, vendor and OS components")
	ErrDuplicateTarget = errors.New("duplicate target in catalog")
	ErrEmptyCatalog    = errors.New("target catalog is empty")
)

// WindowsExeSuffix is the executable suffix appended for Windows-family targets.
const WindowsExeSuffix = ".exe"

// Target is a platform triple the toolchain can build for.
type Target string

// String returns the raw triple.
func (t Target) String() string {
	return string(t)
}

// components splits the triple on dashes.
func (t Target) components() []string {
	return strings.Split(string(t), "-")
}

// Arch returns the architecture component (e.g. "x86_64", "aarch64").
func (t Target) Arch() string {
	parts := t.components()
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// Vendor returns the vendor component (e.g. "unknown", "pc", "apple").
func (t Target) Vendor() string {
	parts := t.components()
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// OS returns the OS/ABI component, which may itself contain dashes
// (e.g. "linux-gnu", "windows-msvc", "darwin").
func (t Target) OS() string {
	parts := t.components()
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[2:], "-")
}

// IsWindows reports whether the target's OS component signals a
// Windows-family ABI.
func (t Target) IsWindows() bool {
	return strings.Contains(t.OS(), "windows")
}

// Validate checks that the triple is well formed.
func (t Target) Validate() error {
	if t == "" {
		return ErrEmptyTarget
	}
	parts := t.components()
	if len(parts) < 3 {
		return fmt.Errorf("%w: %q", ErrMalformedTarget, string(t))
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrMalformedTarget, string(t))
		}
	}
	return nil
}

// BinaryName returns the platform-specific filename of a program binary
// built for this target. Windows-family targets get the ".exe" suffix,
// everything else uses the bare program name. The program name is an
// arbitrary literal and may contain non-ASCII characters.
func (t Target) BinaryName(program string) string {
	if t.IsWindows() {
		return program + WindowsExeSuffix
	}
	return program
}

// ArchiveName returns the archive filename for this target. When version is
// empty the name is unversioned.
func (t Target) ArchiveName(version string) string {
	if version == "" {
		return string(t) + ".zip"
	}
	return fmt.Sprintf("%s-%s.zip", string(t), version)
}
