package scrape

import (
	"errors"
	"fmt"
)

// Sentinel errors for fatal run conditions
var (
	ErrPageCount    = errors.New("page count is not a number")
	ErrReadyTimeout = errors.New("page ready marker did not appear")
)

// Step names a state of the scrape run
type Step string

const (
	StepInit       Step = "init"
	StepNavigate   Step = "navigate"
	StepAwaitReady Step = "await_ready"
	StepPageCount  Step = "page_count"
	StepRollover   Step = "rollover"
	StepExtract    Step = "extract"
	StepAppend     Step = "append"
	StepSave       Step = "save"
	StepCheckpoint Step = "checkpoint"
)

// StepError records which step of the run failed and on which page
type StepError struct {
	Step Step
	Page int
	Err  error
}

// Error implements the error interface
func (e *StepError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s (page %d): %v", e.Step, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step Step, page int, err error) *StepError {
	return &StepError{Step: step, Page: page, Err: err}
}
