package models

// Status is the participant-facing state of a node for one team. It is
// computed by the external store; the empty value means "no team context".
type Status string

// Node statuses.
const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusSolved    Status = "solved"
)

// Phase is the contest lifecycle stage.
type Phase string

// Contest phases.
const (
	PhaseEditing  Phase = "EDITING"
	PhaseRunning  Phase = "RUNNING"
	PhaseFinished Phase = "FINISHED"
)

// Mode selects which audience an editor session serves.
type Mode string

// Session modes.
const (
	ModeEditor      Mode = "editor"
	ModeReadOnly    Mode = "readonly"
	ModeTeamInspect Mode = "teamInspect"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeEditor, ModeReadOnly, ModeTeamInspect:
		return true
	}

	return false
}
