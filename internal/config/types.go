package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cirkolabs/izdaj/internal/target"
)

// VersionMode controls how a missing release tag is handled.
type VersionMode string

const (
	// VersionRequired makes a missing tag fatal: versioned naming is
	// mandatory and the run stops before any build.
	VersionRequired VersionMode = "required"

	// VersionOptional degrades to unversioned naming when no tag can be
	// resolved.
	VersionOptional VersionMode = "optional"

	// VersionNone never consults the repository; output is always
	// unversioned.
	VersionNone VersionMode = "none"
)

// SignWithGPG selects the external gpg command as the signing backend.
const SignWithGPG = "gpg"

// Manifest is the validated release configuration.
type Manifest struct {
	// Program is the fixed binary name shared by all targets. May contain
	// non-ASCII characters.
	Program string

	// Targets is the ordered catalog of platform triples to build.
	Targets target.Catalog

	// Output is the workspace directory, reset on every run.
	Output string

	// Profile is the toolchain build profile.
	Profile string

	// VersionMode controls missing-tag behavior.
	VersionMode VersionMode

	// Sign enables detached signature creation per archive.
	Sign bool

	// Key is the signing credential: a path to an armored private key for
	// the built-in signer, or the key id passed to gpg --local-user (may be
	// empty for gpg, which then uses its default key).
	Key string

	// SignWith selects the signing backend: "" for the built-in signer,
	// SignWithGPG for the external gpg command.
	SignWith string

	// KeepGoing continues past a failing target instead of aborting the run.
	KeepGoing bool

	// Jobs is the number of targets processed concurrently.
	Jobs int

	// Timeout bounds each external invocation. Zero means no limit.
	Timeout time.Duration
}

// Default returns the compiled-in manifest used when no manifest file
// exists. It mirrors the reference release script: build the default
// catalog, versioned naming required, no signing, sequential.
func Default() *Manifest {
	return &Manifest{
		Program:     "ћирко",
		Targets:     target.DefaultCatalog,
		Output:      "build",
		Profile:     "release",
		VersionMode: VersionRequired,
		Jobs:        1,
	}
}

// ValidationError describes a manifest field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest field %s: %s", e.Field, e.Message)
}

// Validate checks the manifest for internal consistency.
func (m *Manifest) Validate() error {
	if m.Program == "" {
		return &ValidationError{Field: luaFieldProgram, Message: "program name is required"}
	}
	if strings.ContainsAny(m.Program, "/\\") {
		return &ValidationError{Field: luaFieldProgram, Message: "program name must not contain path separators"}
	}

	if len(m.Targets) > MaxTargetCount {
		return &ValidationError{
			Field:   luaFieldTargets,
			Message: fmt.Sprintf("too many targets (%d), maximum is %d", len(m.Targets), MaxTargetCount),
		}
	}
	if _, err := target.NewCatalog(m.Targets); err != nil {
		return &ValidationError{Field: luaFieldTargets, Message: err.Error()}
	}

	if m.Output == "" {
		return &ValidationError{Field: luaFieldOutput, Message: "output directory is required"}
	}
	if m.Output == "/" || m.Output == "." || m.Output == ".." || strings.Contains(m.Output, "..") {
		return &ValidationError{Field: luaFieldOutput, Message: fmt.Sprintf("unsafe output directory %q", m.Output)}
	}

	if m.Profile == "" {
		return &ValidationError{Field: luaFieldProfile, Message: "build profile is required"}
	}

	switch m.VersionMode {
	case VersionRequired, VersionOptional, VersionNone:
	default:
		return &ValidationError{
			Field:   luaFieldVersion,
			Message: fmt.Sprintf("unknown version mode %q (want required, optional or none)", m.VersionMode),
		}
	}

	switch m.SignWith {
	case "", SignWithGPG:
	default:
		return &ValidationError{
			Field:   luaFieldSignWith,
			Message: fmt.Sprintf("unknown signing backend %q", m.SignWith),
		}
	}
	if m.Sign && m.SignWith == "" && m.Key == "" {
		return &ValidationError{Field: luaFieldKey, Message: "signing enabled but no key configured"}
	}

	if m.Jobs < 1 {
		return &ValidationError{Field: luaFieldJobs, Message: "jobs must be at least 1"}
	}
	if m.Jobs > MaxJobs {
		return &ValidationError{
			Field:   luaFieldJobs,
			Message: fmt.Sprintf("jobs %d exceeds maximum %d", m.Jobs, MaxJobs),
		}
	}

	if m.Timeout < 0 {
		return &ValidationError{Field: luaFieldTimeout, Message: "timeout must not be negative"}
	}

	return nil
}
