package sign

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// generateKey creates a fresh signing key and writes its armored private
// form to a file, returning the path and the entity for verification.
func generateKey(t *testing.T, dir string) (string, *openpgp.Entity) {
	t.Helper()

	entity, err := openpgp.NewEntity("Release Robot", "", "release@example.com", nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var buf bytes.Buffer
	aw, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("armor encode: %v", err)
	}
	if err := entity.SerializePrivate(aw, nil); err != nil {
		t.Fatalf("serialize private key: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close armor: %v", err)
	}

	keyPath := filepath.Join(dir, "release-key.asc")
	if err := os.WriteFile(keyPath, buf.Bytes(), 0600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return keyPath, entity
}

func writeArchive(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "x86_64-unknown-linux-gnu-1.2.0.zip")
	if err := os.WriteFile(path, []byte("PK\x03\x04 fake archive bytes"), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestPGPSignerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	keyPath, entity := generateKey(t, dir)
	archivePath := writeArchive(t, dir)

	signer := NewPGPSigner(keyPath)
	sigPath, err := signer.Sign(context.Background(), archivePath)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if sigPath != archivePath+SignatureSuffix {
		t.Errorf("signature path = %q, want %q", sigPath, archivePath+SignatureSuffix)
	}

	// The signature must be armored and human-pasteable.
	sigData, err := os.ReadFile(sigPath)
	if err != nil {
		t.Fatalf("read signature: %v", err)
	}
	if !strings.Contains(string(sigData), "BEGIN PGP SIGNATURE") {
		t.Error("signature is not ASCII-armored")
	}

	// Round trip: the public half of the same key verifies the archive.
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer archiveFile.Close()
	sigFile, err := os.Open(sigPath)
	if err != nil {
		t.Fatalf("open signature: %v", err)
	}
	defer sigFile.Close()

	keyring := openpgp.EntityList{entity}
	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, archiveFile, sigFile, nil); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestPGPSignerRejectsTamperedData(t *testing.T) {
	dir := t.TempDir()
	keyPath, entity := generateKey(t, dir)
	archivePath := writeArchive(t, dir)

	signer := NewPGPSigner(keyPath)
	sigPath, err := signer.Sign(context.Background(), archivePath)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tampered := bytes.NewReader([]byte("different bytes"))
	sigFile, err := os.Open(sigPath)
	if err != nil {
		t.Fatalf("open signature: %v", err)
	}
	defer sigFile.Close()

	keyring := openpgp.EntityList{entity}
	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, tampered, sigFile, nil); err == nil {
		t.Error("tampered data verified against signature")
	}
}

func TestPGPSignerMissingKey(t *testing.T) {
	signer := NewPGPSigner(filepath.Join(t.TempDir(), "nope.asc"))
	_, err := signer.Sign(context.Background(), "whatever")
	if err == nil {
		t.Fatal("expected error for missing key file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestPGPSignerGarbageKey(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "junk.asc")
	if err := os.WriteFile(keyPath, []byte("not a key at all"), 0600); err != nil {
		t.Fatalf("write junk key: %v", err)
	}

	signer := NewPGPSigner(keyPath)
	if _, err := signer.Sign(context.Background(), writeArchive(t, dir)); err == nil {
		t.Error("expected error for unparseable key")
	}
}

func TestPGPSignerMissingInput(t *testing.T) {
	dir := t.TempDir()
	keyPath, _ := generateKey(t, dir)

	signer := NewPGPSigner(keyPath)
	if _, err := signer.Sign(context.Background(), filepath.Join(dir, "missing.zip")); err == nil {
		t.Error("expected error for missing input file")
	}
}
