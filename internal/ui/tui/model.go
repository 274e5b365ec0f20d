package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sekolahku/skdeploy/internal/provisioning"
)

// StepState is the display state of one pipeline step.
type StepState int

// Display states, in lifecycle order.
const (
	StatePending StepState = iota
	StateActive
	StateSkipped
	StateDone
	StateWarned
	StateFailed
)

// StepView is one pipeline step as shown in the progress list.
type StepView struct {
	Name    string
	State   StepState
	Message string
}

// Model is the Bubble Tea model for the install progress display.
type Model struct {
	Title    string
	Subtitle string
	Steps    []StepView

	SpinnerFrame int
	StartTime    time.Time

	LastLog string

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewInstallModel builds the model for a pipeline run. stepNames fixes the
// display order up front so pending steps are visible from the start.
func NewInstallModel(title, subtitle string, stepNames []string) Model {
	steps := make([]StepView, len(stepNames))
	for i, name := range stepNames {
		steps[i] = StepView{Name: name, State: StatePending}
	}
	return Model{
		Title:     title,
		Subtitle:  subtitle,
		Steps:     steps,
		StartTime: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepMsg:
		m.applyStep(msg)
		if msg.Type == provisioning.EventStepFailed {
			return m, tea.Quit
		}

	case LogMsg:
		m.LastLog = msg.Line

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyStep(msg StepMsg) {
	idx := -1
	for i := range m.Steps {
		if m.Steps[i].Name == msg.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	switch msg.Type {
	case provisioning.EventStepStarted:
		m.Steps[idx].State = StateActive
	case provisioning.EventStepSkipped:
		m.Steps[idx].State = StateSkipped
	case provisioning.EventStepCompleted:
		m.Steps[idx].State = StateDone
	case provisioning.EventStepWarned:
		m.Steps[idx].State = StateWarned
		m.Steps[idx].Message = msg.Message
	case provisioning.EventStepFailed:
		m.Steps[idx].State = StateFailed
		m.Steps[idx].Message = msg.Message
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
