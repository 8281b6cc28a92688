package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// WorkflowPhase represents one deployment phase for display.
type WorkflowPhase struct {
	Name   string
	Key    string
	Done   bool
	Active bool
	Err    error
}

// Model is the Bubble Tea model for the deployment dashboard.
type Model struct {
	EnvID string

	Phases []WorkflowPhase

	// Upload progress
	ArtifactTotal int
	ArtifactDone  int
	LastArtifact  string

	// Result
	URL string

	// Animation
	SpinnerFrame int

	// UI state
	Width     int
	Height    int
	StartTime time.Time
	Err       error
	Done      bool
}

// NewDeployModel creates a model for the deploy command dashboard.
func NewDeployModel(envID string) Model {
	return Model{
		EnvID:     envID,
		StartTime: time.Now(),
		Phases: []WorkflowPhase{
			{Name: "Preflight & Hosting", Key: "init"},
			{Name: "Build", Key: "build"},
			{Name: "Upload", Key: "deploy"},
		},
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

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case ArtifactCountMsg:
		m.ArtifactTotal = msg.Total

	case ArtifactMsg:
		m.ArtifactDone++
		m.LastArtifact = msg.RemotePath

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.URL = msg.URL
		for i := range m.Phases {
			m.Phases[i].Done = true
			m.Phases[i].Active = false
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// Earlier phases are done once a later one reports
	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	if msg.Done {
		m.Phases[idx].Done = true
		m.Phases[idx].Active = false
	} else {
		m.Phases[idx].Active = true
	}

	if msg.Err != nil {
		m.Phases[idx].Err = msg.Err
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
