package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cirkolabs/izdaj/internal/config"
	"github.com/cirkolabs/izdaj/internal/gitver"
)

// runVersion handles the `izdaj version` subcommand: it prints the release
// version the next run would stamp on archives, honoring the manifest's
// version mode.
func runVersion(args []string) error {
	var configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			fmt.Println("Usage: izdaj version [--config <path>]")
			return nil
		case "--config", "-c":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a path", args[i-1])
			}
			configPath = args[i]
		default:
			return fmt.Errorf("unknown version option: %s", args[i])
		}
	}

	ctx := context.Background()
	m, err := loadManifest(ctx, configPath)
	if err != nil {
		return err
	}

	if m.VersionMode == config.VersionNone {
		fmt.Println("(unversioned: version mode is none)")
		return nil
	}

	version, err := gitver.NewClient(".").Latest(ctx)
	if err != nil {
		if m.VersionMode == config.VersionOptional && errors.Is(err, gitver.ErrNoTags) {
			fmt.Println("(unversioned: no tags reachable)")
			return nil
		}
		return err
	}
	fmt.Println(version)
	return nil
}
