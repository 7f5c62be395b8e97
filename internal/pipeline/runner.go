package pipeline

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cirkolabs/izdaj/internal/archive"
	"github.com/cirkolabs/izdaj/internal/sign"
	"github.com/cirkolabs/izdaj/internal/target"
	"github.com/cirkolabs/izdaj/internal/toolchain"
	"github.com/cirkolabs/izdaj/internal/workspace"
)

// Config holds the collaborators and settings for a Runner.
type Config struct {
	// Catalog is the set of targets to release, in order.
	Catalog target.Catalog

	// Profile selects the toolchain build profile.
	Profile string

	// Version is the resolved release version. Empty means unversioned
	// archive names.
	Version string

	// Builder compiles one binary per target.
	Builder toolchain.Builder

	// Packager turns a binary into an archive.
	Packager archive.Packager

	// Signer produces detached signatures. Nil disables signing.
	Signer sign.Signer

	// Journal records per-target progress. Optional.
	Journal *workspace.Journal

	// KeepGoing continues past failed targets instead of aborting
	// at the first failure.
	KeepGoing bool

	// Jobs is the number of targets processed concurrently. Values
	// below 2 mean sequential processing.
	Jobs int

	// Logger receives progress events. Defaults to a no-op logger.
	Logger Logger
}

// Runner drives each target through build, package, and sign.
type Runner struct {
	catalog   target.Catalog
	profile   string
	version   string
	builder   toolchain.Builder
	packager  archive.Packager
	signer    sign.Signer
	journal   *workspace.Journal
	keepGoing bool
	jobs      int
	logger    Logger
}

// NewRunner creates a Runner from the given configuration.
func NewRunner(config Config) (*Runner, error) {
	if len(config.Catalog) == 0 {
		return nil, errors.New("runner requires a non-empty target catalog")
	}
	if config.Builder == nil {
		return nil, errors.New("runner requires a builder")
	}
	if config.Packager == nil {
		return nil, errors.New("runner requires a packager")
	}
	logger := config.Logger
	if logger == nil {
		logger = defaultLogger()
	}
	jobs := config.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		catalog:   config.Catalog,
		profile:   config.Profile,
		version:   config.Version,
		builder:   config.Builder,
		packager:  config.Packager,
		signer:    config.Signer,
		journal:   config.Journal,
		keepGoing: config.KeepGoing,
		jobs:      jobs,
		logger:    logger,
	}, nil
}

// Run processes every target in the catalog. With KeepGoing unset it
// returns the first target's *StepError and leaves the remaining targets
// untouched; with KeepGoing set it processes all targets and returns an
// error joining ErrTargetsFailed with each target's failure.
func (r *Runner) Run(ctx context.Context) error {
	if r.jobs > 1 {
		return r.runParallel(ctx)
	}
	return r.runSequential(ctx)
}

func (r *Runner) runSequential(ctx context.Context) error {
	var failures []error
	for _, t := range r.catalog {
		if err := r.runTarget(ctx, t); err != nil {
			if !r.keepGoing {
				return err
			}
			failures = append(failures, err)
		}
	}
	return joinFailures(failures)
}

func (r *Runner) runParallel(ctx context.Context) error {
	var (
		mu       sync.Mutex
		failures []error
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.jobs)
	for _, t := range r.catalog {
		t := t
		group.Go(func() error {
			err := r.runTarget(groupCtx, t)
			if err == nil {
				return nil
			}
			if !r.keepGoing {
				// Cancels groupCtx and stops the remaining targets.
				return err
			}
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return joinFailures(failures)
}

func joinFailures(failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrTargetsFailed}, failures...)...)
}

// runTarget walks a single target through the pipeline states.
func (r *Runner) runTarget(ctx context.Context, t target.Target) error {
	state := StatePending

	r.logger.Info("building target", "target", t, "profile", r.profile)
	binPath, err := r.builder.Build(ctx, t, r.profile)
	if err != nil {
		return r.fail(t, state, StepBuild, err)
	}
	if state, err = r.advance(t, state, StateBuilt); err != nil {
		return r.fail(t, state, StepBuild, err)
	}

	archiveName := t.ArchiveName(r.version)
	r.logger.Info("packaging target", "target", t, "archive", archiveName)
	archivePath, err := r.packager.Package(binPath, archiveName)
	if err != nil {
		return r.fail(t, state, StepPackage, err)
	}
	if r.journal != nil {
		r.journal.SetArchive(t, archivePath)
	}
	if state, err = r.advance(t, state, StatePackaged); err != nil {
		return r.fail(t, state, StepPackage, err)
	}

	if r.signer != nil {
		r.logger.Info("signing archive", "target", t, "archive", archivePath)
		sigPath, err := r.signer.Sign(ctx, archivePath)
		if err != nil {
			return r.fail(t, state, StepSign, err)
		}
		if r.journal != nil {
			r.journal.SetSignature(t, sigPath)
		}
		if state, err = r.advance(t, state, StateSigned); err != nil {
			return r.fail(t, state, StepSign, err)
		}
	}

	if _, err = r.advance(t, state, StateDone); err != nil {
		return r.fail(t, state, StepPackage, err)
	}
	r.logger.Info("target complete", "target", t)
	return nil
}

func (r *Runner) advance(t target.Target, from, to State) (State, error) {
	next, err := transition(from, to)
	if err != nil {
		return from, err
	}
	if r.journal != nil {
		r.journal.SetState(t, string(next))
	}
	return next, nil
}

func (r *Runner) fail(t target.Target, from State, step Step, err error) error {
	if next, terr := transition(from, StateFailed); terr == nil {
		if r.journal != nil {
			r.journal.SetState(t, string(next))
		}
	}
	stepErr := &StepError{Target: t, Step: step, Err: err}
	if r.journal != nil {
		r.journal.SetError(t, stepErr)
	}
	r.logger.Error("target failed", "target", t, "step", step, "error", err)
	return stepErr
}
