// Package tui provides a Bubble Tea-based terminal UI for the deployment
// workflow.
package tui

// PhaseMsg reports progress of a workflow phase.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// ArtifactMsg reports one uploaded artifact.
type ArtifactMsg struct {
	RemotePath string
}

// ArtifactCountMsg announces how many artifacts the upload phase covers.
type ArtifactCountMsg struct {
	Total int
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the deployment finished, carrying the site URL.
type DoneMsg struct{ URL string }
