// Package provisioning contains the step engine: a declarative ordered list
// of idempotent provisioning steps executed by one generic runner.
//
// Steps are strictly sequential because they mutate shared host state
// (package database, filesystem tree, container runtime namespace) where
// interleaving would risk corruption. Each later step may assume all earlier
// steps' side effects are committed.
package provisioning

import "fmt"

// Policy classifies how a step failure affects the run.
type Policy int

const (
	// Fatal aborts the entire run immediately. Completed side effects stay
	// in place; recovery is re-running the pipeline, relying on idempotency
	// to skip finished steps.
	Fatal Policy = iota

	// Warn logs a warning banner, skips the remainder of the step and
	// continues the pipeline.
	Warn
)

func (p Policy) String() string {
	if p == Warn {
		return "WARN"
	}
	return "FATAL"
}

// Step is one idempotent unit of provisioning work.
type Step struct {
	// Name identifies the step in logs and errors.
	Name string

	// Policy is the failure policy applied when Run returns an error.
	Policy Policy

	// Done is the idempotency precondition: when it reports true the goal
	// state already holds, Run is skipped and a no-op is logged. Never nil.
	Done func(ctx *Context) (bool, error)

	// Run performs the step's side effects through the context's
	// collaborators.
	Run func(ctx *Context) error
}

// StepError reports a failed step execution with its captured diagnostics.
type StepError struct {
	Step   string
	Policy Policy
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("[%s] step %s failed: %v", e.Policy, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
