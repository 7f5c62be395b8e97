package pipeline

import (
	"errors"
	"fmt"

	"github.com/cirkolabs/izdaj/internal/target"
)

// Step names the pipeline stage where a failure occurred.
type Step string

const (
	StepWorkspace Step = "workspace"
	StepVersion   Step = "version"
	StepBuild     Step = "build"
	StepPackage   Step = "package"
	StepSign      Step = "sign"
)

// ErrTargetsFailed is the sentinel joined into the run error when one or
// more targets failed but the run continued past them.
var ErrTargetsFailed = errors.New("one or more targets failed")

// StepError ties a failure to the target and stage it happened in. Run-level
// failures (workspace, version) carry an empty target.
type StepError struct {
	Target target.Target
	Step   Step
	Err    error
}

func (e *StepError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("target %s: %s: %v", e.Target, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
