// Package sign produces detached, ASCII-armored signatures for release
// archives. Two backends exist: a built-in OpenPGP signer reading an
// armored private key file, and an external gpg invocation for setups where
// the credential lives in the system keyring. Both emit `<archive>.asc`.
package sign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// SignatureSuffix is appended to the signed file's path.
const SignatureSuffix = ".asc"

// Common signing errors
var (
	ErrNoSigningKey = errors.New("no usable signing key in keyring")
	ErrKeyLocked    = errors.New("signing key is locked (passphrase-protected keys must be unlocked externally)")
)

// Signer is the interface for detached signature creation.
// Following Go best practices: accept interfaces, return structs.
type Signer interface {
	// Sign produces a detached armored signature for the file at path and
	// returns the signature file's path.
	Sign(ctx context.Context, path string) (string, error)
}

// PGPSigner implements Signer in-process with an armored private key file.
type PGPSigner struct {
	keyPath string
}

// NewPGPSigner creates a signer reading its credential from keyPath.
func NewPGPSigner(keyPath string) *PGPSigner {
	return &PGPSigner{keyPath: keyPath}
}

// Sign writes an armored detached signature next to the input file.
func (s *PGPSigner) Sign(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	entity, err := s.loadSigningKey()
	if err != nil {
		return "", err
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input %s: %w", path, err)
	}
	defer in.Close()

	sigPath := path + SignatureSuffix
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("create signature %s: %w", sigPath, err)
	}

	if err := openpgp.ArmoredDetachSign(out, entity, in, nil); err != nil {
		out.Close()
		os.Remove(sigPath)
		return "", fmt.Errorf("sign %s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(sigPath)
		return "", fmt.Errorf("close signature %s: %w", sigPath, err)
	}

	return sigPath, nil
}

// loadSigningKey reads the private key, trying armored form first.
func (s *PGPSigner) loadSigningKey() (*openpgp.Entity, error) {
	keyFile, err := os.Open(s.keyPath)
	if err != nil {
		return nil, fmt.Errorf("open signing key: %w", err)
	}
	defer keyFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try reading as a binary keyring
		keyFile.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read signing key: %w", err)
		}
	}

	for _, entity := range keyring {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			return nil, fmt.Errorf("%w: %s", ErrKeyLocked, s.keyPath)
		}
		return entity, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoSigningKey, s.keyPath)
}
