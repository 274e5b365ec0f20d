// Package tui provides the Bubble Tea progress display for the install
// pipeline. It consumes the same structured events the plain console
// observer does; picking between the two happens at the CLI layer based on
// whether stdout is a terminal.
package tui

import "github.com/sekolahku/skdeploy/internal/provisioning"

// StepMsg carries one step event into the model.
type StepMsg struct {
	Step    string
	Type    provisioning.EventType
	Message string
}

// LogMsg carries a free-form observer line.
type LogMsg struct{ Line string }

// TickMsg advances the spinner.
type TickMsg struct{}

// ErrMsg aborts the display with an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the pipeline finished.
type DoneMsg struct{}
