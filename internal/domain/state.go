package domain

import "time"

type SubmissionStatus string

const (
	StatusIdle       SubmissionStatus = "idle"
	StatusSubmitting SubmissionStatus = "submitting"
	StatusSucceeded  SubmissionStatus = "succeeded"
	StatusFailed     SubmissionStatus = "failed"
)

// SubmissionState is an immutable snapshot; transitions return a new value.
type SubmissionState struct {
	Status    SubmissionStatus  `json:"status"`
	Error     string            `json:"error,omitempty"`
	Result    *GenerationResult `json:"result,omitempty"`
	Attempts  int               `json:"attempts"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func IdleState() SubmissionState {
	return SubmissionState{Status: StatusIdle, UpdatedAt: time.Now()}
}

// Begin starts a new attempt from any state, dropping the previous outcome
func (s SubmissionState) Begin() SubmissionState {
	return SubmissionState{
		Status:    StatusSubmitting,
		Attempts:  s.Attempts + 1,
		UpdatedAt: time.Now(),
	}
}

func (s SubmissionState) Succeed(result *GenerationResult) SubmissionState {
	return SubmissionState{
		Status:    StatusSucceeded,
		Result:    result,
		Attempts:  s.Attempts,
		UpdatedAt: time.Now(),
	}
}

// Fail records the message and clears any stored result
func (s SubmissionState) Fail(message string) SubmissionState {
	return SubmissionState{
		Status:    StatusFailed,
		Error:     message,
		Attempts:  s.Attempts,
		UpdatedAt: time.Now(),
	}
}

func (s SubmissionState) Reset() SubmissionState {
	return IdleState()
}

func (s SubmissionState) InFlight() bool {
	return s.Status == StatusSubmitting
}
