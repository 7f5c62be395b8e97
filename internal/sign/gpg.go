package sign

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// GPGError wraps a failed gpg invocation with the child process output,
// preserving the error chain for errors.Is/errors.As checks.
type GPGError struct {
	Path   string
	Output string
	Err    error
}

func (e *GPGError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("sign %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("sign %s: %v\n%s", e.Path, e.Err, out)
}

// Unwrap returns the underlying process error.
func (e *GPGError) Unwrap() error {
	return e.Err
}

// GPG implements Signer by invoking the external gpg command. The signing
// credential lives in the ambient gpg keyring; a locked key surfaces as a
// gpg error, not a special case here.
type GPG struct {
	bin     string        // signer binary, normally "gpg"
	keyID   string        // --local-user value; empty uses gpg's default key
	timeout time.Duration // per-invocation bound, 0 = none
}

// NewGPG creates an external gpg signer. keyID may be empty.
func NewGPG(keyID string, timeout time.Duration) *GPG {
	return &GPG{
		bin:     "gpg",
		keyID:   keyID,
		timeout: timeout,
	}
}

// Sign invokes gpg to produce an armored detached signature next to the
// input file.
func (g *GPG) Sign(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	sigPath := path + SignatureSuffix
	args := []string{"--batch", "--yes", "--armor", "--detach-sign"}
	if g.keyID != "" {
		args = append(args, "--local-user", g.keyID)
	}
	args = append(args, "--output", sigPath, path)

	cmd := exec.CommandContext(ctx, g.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(sigPath)
		return "", &GPGError{Path: path, Output: string(out), Err: err}
	}

	if _, err := os.Stat(sigPath); err != nil {
		return "", &GPGError{Path: path, Output: string(out), Err: fmt.Errorf("gpg reported success but produced no signature: %w", err)}
	}

	return sigPath, nil
}
