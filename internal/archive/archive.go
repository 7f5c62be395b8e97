// Package archive bundles release binaries into distributable zip files.
//
// Each archive holds exactly one entry: the binary, stored under its bare
// filename with no directory path. Entry headers are fixed (timestamp and
// mode) so that repeated runs over identical input produce byte-identical
// archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrMissingArtifact is returned when the binary to package does not exist.
// This propagates as a packaging failure of the owning target.
var ErrMissingArtifact = errors.New("binary artifact missing")

// entryModified is the fixed timestamp stored in archive entries. The zip
// format cannot represent times before 1980.
var entryModified = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// entryMode is the fixed mode stored in archive entries; binaries stay
// executable after extraction.
const entryMode = os.FileMode(0755)

// Packager is the interface for bundling one binary into an archive.
// Following Go best practices: accept interfaces, return structs.
type Packager interface {
	// Package writes an archive named archiveName in the output directory
	// containing the file at binPath as its sole, flattened entry, and
	// returns the archive path.
	Package(binPath, archiveName string) (string, error)
}

// Zip implements Packager producing zip archives in a fixed directory.
type Zip struct {
	outDir string
}

// NewZip creates a zip packager writing into outDir.
func NewZip(outDir string) *Zip {
	return &Zip{outDir: outDir}
}

// Package creates <outDir>/<archiveName> containing binPath's content under
// its base filename.
func (z *Zip) Package(binPath, archiveName string) (string, error) {
	in, err := os.Open(binPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrMissingArtifact, binPath)
		}
		return "", fmt.Errorf("open binary: %w", err)
	}
	defer in.Close()

	archivePath := filepath.Join(z.outDir, archiveName)
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive %s: %w", archivePath, err)
	}

	if err := writeZip(out, in, filepath.Base(binPath)); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", fmt.Errorf("write archive %s: %w", archivePath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return "", fmt.Errorf("close archive %s: %w", archivePath, err)
	}

	return archivePath, nil
}

// writeZip writes a single deflated entry with deterministic headers.
func writeZip(out io.Writer, in io.Reader, entryName string) error {
	zw := zip.NewWriter(out)

	header := &zip.FileHeader{
		Name:     entryName,
		Method:   zip.Deflate,
		Modified: entryModified,
	}
	header.SetMode(entryMode)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", entryName, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("write entry %s: %w", entryName, err)
	}

	return zw.Close()
}
