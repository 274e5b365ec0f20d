package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sekolahku/skdeploy/internal/provisioning"
)

// ProgramObserver forwards provisioning events into a running program. It is
// the TUI counterpart of the console observer.
type ProgramObserver struct {
	Program *tea.Program
}

// Printf implements provisioning.Observer.
func (o *ProgramObserver) Printf(format string, v ...any) {
	o.Program.Send(LogMsg{Line: fmt.Sprintf(format, v...)})
}

// Event implements provisioning.Observer.
func (o *ProgramObserver) Event(event provisioning.Event) {
	o.Program.Send(StepMsg{Step: event.Step, Type: event.Type, Message: event.Message})
}

// Run executes fn under the progress display. fn receives an observer wired
// into the program and runs concurrently with it; fn's error is returned
// after the display has shut down.
func Run(title, subtitle string, stepNames []string, fn func(provisioning.Observer) error) error {
	p := tea.NewProgram(NewInstallModel(title, subtitle, stepNames))

	errCh := make(chan error, 1)
	go func() {
		err := fn(&ProgramObserver{Program: p})
		errCh <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("progress display failed: %w", err)
	}
	return <-errCh
}
