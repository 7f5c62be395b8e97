package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeBinary(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	return path
}

func TestPackageSingleFlattenedEntry(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	content := []byte("\x7fELF fake binary")

	// Binary sits in a nested toolchain directory; the archive entry must
	// not carry that path.
	nested := filepath.Join(srcDir, "target", "x86_64-unknown-linux-gnu", "release")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	binPath := writeBinary(t, nested, "prog", content)

	z := NewZip(outDir)
	archivePath, err := z.Package(binPath, "x86_64-unknown-linux-gnu-1.2.0.zip")
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}
	if archivePath != filepath.Join(outDir, "x86_64-unknown-linux-gnu-1.2.0.zip") {
		t.Errorf("archive path = %q", archivePath)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	if len(r.File) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(r.File))
	}
	entry := r.File[0]
	if entry.Name != "prog" {
		t.Errorf("entry name = %q, want prog (flattened)", entry.Name)
	}
	if entry.Mode()&0111 == 0 {
		t.Error("entry lost executable mode")
	}

	rc, err := entry.Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("entry content does not match binary")
	}
}

func TestPackageNonASCIIEntryName(t *testing.T) {
	srcDir := t.TempDir()
	binPath := writeBinary(t, srcDir, "ћирко.exe", []byte("MZ fake"))

	z := NewZip(t.TempDir())
	archivePath, err := z.Package(binPath, "x86_64-pc-windows-gnu.zip")
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer r.Close()

	if r.File[0].Name != "ћирко.exe" {
		t.Errorf("entry name = %q, want ћирко.exe", r.File[0].Name)
	}
}

func TestPackageDeterministic(t *testing.T) {
	srcDir := t.TempDir()
	binPath := writeBinary(t, srcDir, "prog", []byte("same bytes every run"))

	first := NewZip(t.TempDir())
	second := NewZip(t.TempDir())

	a, err := first.Package(binPath, "t.zip")
	if err != nil {
		t.Fatalf("first Package failed: %v", err)
	}
	b, err := second.Package(binPath, "t.zip")
	if err != nil {
		t.Fatalf("second Package failed: %v", err)
	}

	dataA, err := os.ReadFile(a)
	if err != nil {
		t.Fatalf("read first archive: %v", err)
	}
	dataB, err := os.ReadFile(b)
	if err != nil {
		t.Fatalf("read second archive: %v", err)
	}
	if !bytes.Equal(dataA, dataB) {
		t.Error("archives over identical input are not byte-identical")
	}
}

func TestPackageMissingBinary(t *testing.T) {
	z := NewZip(t.TempDir())
	_, err := z.Package(filepath.Join(t.TempDir(), "nope"), "t.zip")
	if !errors.Is(err, ErrMissingArtifact) {
		t.Errorf("error = %v, want ErrMissingArtifact", err)
	}
}

func TestPackageBadOutputDir(t *testing.T) {
	srcDir := t.TempDir()
	binPath := writeBinary(t, srcDir, "prog", []byte("x"))

	z := NewZip(filepath.Join(t.TempDir(), "does", "not", "exist"))
	if _, err := z.Package(binPath, "t.zip"); err == nil {
		t.Error("expected error for missing output directory")
	}
}
