// Package toolchain drives the external compiler that produces one binary
// per release target. The toolchain is an opaque external command: it is
// invoked synchronously, either succeeds or fails, and its diagnostic
// output is carried on the returned error so failures are actionable.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cirkolabs/izdaj/internal/target"
)

// Common toolchain errors
var (
	ErrNoArtifact = errors.New("toolchain reported success but produced no binary")
)

// InvocationError wraps a failed toolchain invocation with the failing
// target and the child process output, preserving the error chain for
// errors.Is/errors.As checks.
type InvocationError struct {
	Target target.Target
	Output string
	Err    error
}

func (e *InvocationError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("build %s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("build %s: %v\n%s", e.Target, e.Err, out)
}

// Unwrap returns the underlying process error.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Builder is the interface for per-target binary builds.
// Following Go best practices: accept interfaces, return structs.
type Builder interface {
	// Build compiles the program for the given target and profile and
	// returns the path of the produced binary.
	Build(ctx context.Context, t target.Target, profile string) (string, error)
}

// Cargo implements Builder by invoking the cargo binary, the toolchain the
// reference release pipeline is built around.
type Cargo struct {
	bin     string        // toolchain binary, normally "cargo"
	root    string        // source tree root; toolchain output lands under <root>/target
	program string        // fixed program name shared by all targets
	timeout time.Duration // per-invocation bound, 0 = none
}

// NewCargo creates a cargo build driver for the source tree at root.
func NewCargo(root, program string, timeout time.Duration) *Cargo {
	return &Cargo{
		bin:     "cargo",
		root:    root,
		program: program,
		timeout: timeout,
	}
}

// BinaryPath returns where the toolchain places the binary for a target:
// <root>/target/<triple>/<profile>/<program>[.exe].
func (c *Cargo) BinaryPath(t target.Target, profile string) string {
	return filepath.Join(c.root, "target", t.String(), profile, t.BinaryName(c.program))
}

// Build runs one blocking toolchain invocation for the target. The child
// environment is scrubbed to the variables the toolchain needs; combined
// output is captured for error reporting only.
func (c *Cargo) Build(ctx context.Context, t target.Target, profile string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"build", "--target", t.String()}
	if profile == "release" {
		args = append(args, "--release")
	} else if profile != "debug" {
		args = append(args, "--profile", profile)
	}

	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = c.root
	cmd.Env = scrubbedEnv()

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &InvocationError{Target: t, Output: string(out), Err: err}
	}

	binPath := c.BinaryPath(t, profile)
	if _, err := os.Stat(binPath); err != nil {
		return "", &InvocationError{Target: t, Output: string(out), Err: fmt.Errorf("%w: %s", ErrNoArtifact, binPath)}
	}

	return binPath, nil
}

// scrubbedEnv passes through only what the toolchain needs to locate its
// own installation and caches.
func scrubbedEnv() []string {
	keep := []string{"HOME", "PATH", "USER", "LANG", "TERM", "CARGO_HOME", "RUSTUP_HOME", "TMPDIR"}

	env := make([]string, 0, len(keep))
	for _, key := range keep {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
		}
	}
	return env
}
