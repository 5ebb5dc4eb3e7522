package session

// UploadState is the lifecycle of the current file selection on the backend.
type UploadState int

const (
	UploadNotStarted UploadState = iota
	UploadInProgress
	UploadSucceeded
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadNotStarted:
		return "not_started"
	case UploadInProgress:
		return "in_progress"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gate is the enabled state of the question controls, derived from UploadState.
type Gate struct {
	UploadState    UploadState
	InputEnabled   bool
	SubmitEnabled  bool
	AwaitingAnswer bool
}

func deriveGate(state UploadState, awaiting bool) Gate {
	ready := state == UploadSucceeded
	return Gate{
		UploadState:    state,
		InputEnabled:   ready,
		SubmitEnabled:  ready && !awaiting,
		AwaitingAnswer: awaiting,
	}
}
