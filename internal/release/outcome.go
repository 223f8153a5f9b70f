package release

import (
	"github.com/wpforge/wprelease/internal/versioning"
)

// Step names a release stage.
type Step string

const (
	StepVersion Step = "version"
	StepInstall Step = "install"
	StepBuild   Step = "build"
	StepArchive Step = "archive"
	StepUpload  Step = "upload"
)

// Outcome is the result of one step. A step that fails without stopping
// the release has OK false, a nil Err and its problems in Warnings.
type Outcome struct {
	Step     Step
	OK       bool
	Skipped  bool
	Detail   string
	Warnings []error
	// Err is set only for the fatal failure that ended the run.
	Err error
}

// warn records a non-fatal problem.
func (o *Outcome) warn(err error) {
	o.Warnings = append(o.Warnings, err)
}

// Report collects the outcomes of one run.
type Report struct {
	From     versioning.Version
	To       versioning.Version
	Archive  string
	Outcomes []Outcome
}

// Outcome returns the outcome of step, if it ran.
func (r *Report) Outcome(step Step) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Step == step {
			return o, true
		}
	}
	return Outcome{}, false
}

// WarningCount returns the number of warnings over all steps.
func (r *Report) WarningCount() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Warnings)
	}
	return n
}

// Fatal returns the error that ended the run, or nil.
func (r *Report) Fatal() error {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
