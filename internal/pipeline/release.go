package pipeline

import (
	"context"
	"errors"

	"github.com/cirkolabs/izdaj/internal/archive"
	"github.com/cirkolabs/izdaj/internal/config"
	"github.com/cirkolabs/izdaj/internal/gitver"
	"github.com/cirkolabs/izdaj/internal/sign"
	"github.com/cirkolabs/izdaj/internal/toolchain"
	"github.com/cirkolabs/izdaj/internal/workspace"
)

// ReleaseConfig wires together everything a full release run needs.
type ReleaseConfig struct {
	// Manifest is the validated release manifest, including the target
	// catalog.
	Manifest *config.Manifest

	// Workspace is the output directory. It is reset before any build runs.
	Workspace *workspace.Workspace

	// Resolver supplies the release version. May be nil when the manifest's
	// version mode is "none".
	Resolver gitver.Resolver

	// Builder compiles one binary per target.
	Builder toolchain.Builder

	// Packager turns binaries into archives.
	Packager archive.Packager

	// Signer produces detached signatures. Nil disables signing.
	Signer sign.Signer

	// Logger receives progress events. Defaults to a no-op logger.
	Logger Logger
}

// Summary reports what a release run produced. It is populated from the
// run journal, so partially failed runs still describe what they finished.
type Summary struct {
	// RunID is the journal's unique run identifier.
	RunID string

	// Version is the resolved release version, empty when unversioned.
	Version string

	// Archives lists archive paths for targets that completed.
	Archives []string

	// Signatures lists signature paths for targets that were signed.
	Signatures []string

	// Failed lists targets whose pipeline failed. Targets never attempted
	// because an earlier failure aborted the run appear in neither list.
	Failed []string
}

// Release runs the full pipeline: reset the workspace, resolve the version,
// then drive every target through build, package, and sign. The returned
// summary is non-nil whenever target processing started, even if some or
// all targets failed; the error then describes the failures.
func Release(ctx context.Context, rc ReleaseConfig) (*Summary, error) {
	logger := rc.Logger
	if logger == nil {
		logger = defaultLogger()
	}
	m := rc.Manifest

	if err := rc.Workspace.Reset(); err != nil {
		return nil, &StepError{Step: StepWorkspace, Err: err}
	}
	logger.Debug("workspace reset", "root", rc.Workspace.Root())

	version, err := resolveVersion(ctx, m.VersionMode, rc.Resolver, logger)
	if err != nil {
		return nil, err
	}

	journal := workspace.NewJournal(version, m.Targets, string(StatePending))
	logger.Info("starting release run",
		"run_id", journal.ID, "version", version,
		"targets", len(m.Targets), "jobs", m.Jobs)

	runner, err := NewRunner(Config{
		Catalog:   m.Targets,
		Profile:   m.Profile,
		Version:   version,
		Builder:   rc.Builder,
		Packager:  rc.Packager,
		Signer:    rc.Signer,
		Journal:   journal,
		KeepGoing: m.KeepGoing,
		Jobs:      m.Jobs,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	runErr := runner.Run(ctx)
	if err := journal.Save(rc.Workspace.Root()); err != nil {
		// The journal is diagnostic output; losing it must not mask
		// the run's real outcome.
		logger.Warn("could not save run journal", "error", err)
	}
	return summarize(journal, version), runErr
}

// resolveVersion applies the manifest's version mode. In required mode a
// resolution failure aborts the run; in optional mode it degrades to an
// unversioned release.
func resolveVersion(ctx context.Context, mode config.VersionMode, resolver gitver.Resolver, logger Logger) (string, error) {
	switch mode {
	case config.VersionNone:
		return "", nil
	case config.VersionOptional:
		if resolver == nil {
			return "", nil
		}
		version, err := resolver.Latest(ctx)
		if err != nil {
			logger.Warn("no version resolved, archives will be unversioned", "error", err)
			return "", nil
		}
		return version, nil
	default: // config.VersionRequired
		if resolver == nil {
			return "", &StepError{Step: StepVersion, Err: errors.New("version resolver not configured")}
		}
		version, err := resolver.Latest(ctx)
		if err != nil {
			return "", &StepError{Step: StepVersion, Err: err}
		}
		return version, nil
	}
}

func summarize(journal *workspace.Journal, version string) *Summary {
	s := &Summary{RunID: journal.ID, Version: version}
	for _, rec := range journal.Targets {
		if rec.Archive != "" {
			s.Archives = append(s.Archives, rec.Archive)
		}
		if rec.Signature != "" {
			s.Signatures = append(s.Signatures, rec.Signature)
		}
		if rec.State == string(StateFailed) {
			s.Failed = append(s.Failed, rec.Target)
		}
	}
	return s
}
