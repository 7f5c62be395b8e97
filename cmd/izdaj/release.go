package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cirkolabs/izdaj/internal/archive"
	"github.com/cirkolabs/izdaj/internal/config"
	"github.com/cirkolabs/izdaj/internal/gitver"
	"github.com/cirkolabs/izdaj/internal/pipeline"
	"github.com/cirkolabs/izdaj/internal/sign"
	"github.com/cirkolabs/izdaj/internal/toolchain"
	"github.com/cirkolabs/izdaj/internal/workspace"
)

// runRelease handles the `izdaj release` subcommand.
func runRelease(args []string) error {
	var (
		configPath string
		keepGoing  bool
		jobs       int
		quiet      bool
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			printHelp()
			return nil
		case "--config", "-c":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a path", args[i-1])
			}
			configPath = args[i]
		case "--keep-going", "-k":
			keepGoing = true
		case "--jobs", "-j":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a number", args[i-1])
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid job count: %s", args[i])
			}
			jobs = n
		case "--quiet", "-q":
			quiet = true
		default:
			return fmt.Errorf("unknown release option: %s", args[i])
		}
	}

	// Interrupts cancel in-flight toolchain and signing children.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := loadManifest(ctx, configPath)
	if err != nil {
		return err
	}
	if keepGoing {
		m.KeepGoing = true
	}
	if jobs > 0 {
		m.Jobs = jobs
		if err := m.Validate(); err != nil {
			return err
		}
	}

	ws := workspace.New(m.Output)
	lock, err := workspace.AcquireLock(ws)
	if err != nil {
		return err
	}
	defer lock.Release() //nolint:errcheck

	var signer sign.Signer
	if m.Sign {
		if m.SignWith == config.SignWithGPG {
			signer = sign.NewGPG(m.Key, m.Timeout)
		} else {
			signer = sign.NewPGPSigner(m.Key)
		}
	}

	summary, err := pipeline.Release(ctx, pipeline.ReleaseConfig{
		Manifest:  m,
		Workspace: ws,
		Resolver:  gitver.NewClient("."),
		Builder:   toolchain.NewCargo(".", m.Program, m.Timeout),
		Packager:  archive.NewZip(m.Output),
		Signer:    signer,
		Logger:    &stderrLogger{quiet: quiet},
	})
	if summary != nil {
		printSummary(summary)
	}
	return err
}

func printSummary(s *pipeline.Summary) {
	if s.Version != "" {
		fmt.Printf("Release %s (run %s)\n", s.Version, s.RunID)
	} else {
		fmt.Printf("Unversioned release (run %s)\n", s.RunID)
	}
	for _, a := range s.Archives {
		fmt.Printf("  %s\n", a)
	}
	for _, sig := range s.Signatures {
		fmt.Printf("  %s\n", sig)
	}
	if len(s.Failed) > 0 {
		fmt.Printf("Failed targets: %d\n", len(s.Failed))
		for _, t := range s.Failed {
			fmt.Printf("  %s\n", t)
		}
	}
}
