package pipeline

import (
	"errors"
	"fmt"
)

// ErrPollTimeout is returned when a talk never reaches a terminal status
// within the configured attempt ceiling.
var ErrPollTimeout = errors.New("talk polling timed out")

// GenerationError reports which pipeline step failed for which clip.
type GenerationError struct {
	ClipID string
	Step   string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("clip %s: %s: %v", e.ClipID, e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func stepErr(clipID, step string, err error) *GenerationError {
	return &GenerationError{ClipID: clipID, Step: step, Err: err}
}
