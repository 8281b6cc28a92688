package tui

import (
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/hostctl/internal/provisioning"
)

// sender is the subset of tea.Program the observer needs.
type sender interface {
	Send(msg tea.Msg)
}

// ProgramObserver translates workflow events into Bubble Tea messages.
// It implements provisioning.Observer, so the orchestrator drives the
// dashboard without knowing about it.
type ProgramObserver struct {
	program sender
}

// NewProgramObserver creates an observer feeding the given program.
func NewProgramObserver(program sender) *ProgramObserver {
	return &ProgramObserver{program: program}
}

// Printf implements provisioning.Observer. Free-form log lines are not
// shown on the dashboard.
func (o *ProgramObserver) Printf(string, ...interface{}) {}

// Event implements provisioning.Observer.
func (o *ProgramObserver) Event(event provisioning.Event) {
	switch event.Type {
	case provisioning.EventPhaseStarted:
		o.program.Send(PhaseMsg{Phase: event.Phase})
	case provisioning.EventPhaseCompleted:
		o.program.Send(PhaseMsg{Phase: event.Phase, Done: true})
	case provisioning.EventPhaseFailed:
		o.program.Send(PhaseMsg{Phase: event.Phase, Err: errors.New(event.Message)})
	case provisioning.EventArtifactBatch:
		if n, err := strconv.Atoi(event.Fields["count"]); err == nil {
			o.program.Send(ArtifactCountMsg{Total: n})
		}
	case provisioning.EventArtifactDeployed:
		o.program.Send(ArtifactMsg{RemotePath: event.Resource})
	}
}

// RunDeployTUI wraps the deployment workflow with a Bubble Tea dashboard.
// workflowFn runs the deployment, reporting through the observer it is
// handed; it returns the deployed site URL. The dashboard exits when the
// workflow finishes or the user quits.
func RunDeployTUI(envID string, workflowFn func(observer provisioning.Observer) (string, error)) error {
	m := NewDeployModel(envID)
	p := tea.NewProgram(m)

	go func() {
		url, err := workflowFn(NewProgramObserver(p))
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{URL: url})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
