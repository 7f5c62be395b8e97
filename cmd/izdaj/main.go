package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0-dev"

func main() {
	// Handle subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version":
			fmt.Printf("izdaj %s\n", Version)
			return
		case "release":
			// Handle izdaj release subcommand
			if err := runRelease(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "targets":
			// Handle izdaj targets subcommand
			if err := runTargets(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			// Handle izdaj version subcommand
			if err := runVersion(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "help", "--help", "-h":
			printHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	// Default: run a release, the tool's whole reason to exist.
	if err := runRelease(nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("izdaj - cross-target release packaging")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  izdaj [release] [options]   Build, package, and sign every target")
	fmt.Println("  izdaj targets [options]     List the targets a release would cover")
	fmt.Println("  izdaj version [options]     Print the release version that would be used")
	fmt.Println("  izdaj --version             Show tool version information")
	fmt.Println()
	fmt.Println("Release options:")
	fmt.Println("  --config <path>, -c <path>  Manifest file (default: izdaj.lua)")
	fmt.Println("  --keep-going, -k            Continue past failing targets")
	fmt.Println("  --jobs <n>, -j <n>          Process up to n targets concurrently")
	fmt.Println("  --quiet, -q                 Suppress progress output")
}
