package main

import (
	"context"
	"fmt"
)

// runTargets handles the `izdaj targets` subcommand. It lists each target
// with the artifact names a release would produce, which makes the
// windows .exe handling and archive naming visible before a long build.
func runTargets(args []string) error {
	var configPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			fmt.Println("Usage: izdaj targets [--config <path>]")
			return nil
		case "--config", "-c":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a path", args[i-1])
			}
			configPath = args[i]
		default:
			return fmt.Errorf("unknown targets option: %s", args[i])
		}
	}

	ctx := context.Background()
	m, err := loadManifest(ctx, configPath)
	if err != nil {
		return err
	}

	for _, t := range m.Targets {
		fmt.Printf("%-32s %s -> %s\n", t, t.BinaryName(m.Program), t.ArchiveName(""))
	}
	return nil
}
