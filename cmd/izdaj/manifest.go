package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cirkolabs/izdaj/internal/config"
	"github.com/cirkolabs/izdaj/internal/platform"
)

// defaultManifestPath is where the manifest is looked for when no
// --config flag is given.
const defaultManifestPath = "izdaj.lua"

// loadManifest reads and validates the manifest. With an empty path the
// default location is tried; if nothing is there the built-in defaults
// apply, so a bare repository can still be released.
func loadManifest(ctx context.Context, path string) (*config.Manifest, error) {
	explicit := path != ""
	if !explicit {
		path = defaultManifestPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			m := config.Default()
			if verr := m.Validate(); verr != nil {
				return nil, verr
			}
			return m, nil
		}
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	// ParseFile validates the extracted manifest before returning it.
	parser := config.NewParser(platform.NewDetector())
	m, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}
