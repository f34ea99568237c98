package errors

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline step that produced a fatal error
type Stage string

const (
	StageConfig         Stage = "config"
	StageDiscovery      Stage = "discovery"
	StageTransformation Stage = "transformation"
	StagePersistence    Stage = "persistence"
)

// ExitCode returns the process exit code reported for a failure in the stage
func (s Stage) ExitCode() int {
	switch s {
	case StageDiscovery:
		return 2
	case StageTransformation:
		return 3
	case StagePersistence:
		return 4
	default:
		return 1
	}
}

// StageError tags an error with the pipeline stage that failed
type StageError struct {
	Stage Stage
	Cause error
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// AtStage wraps err with stage. A nil err stays nil and an error already
// tagged keeps its original stage.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Cause: err}
}

// StageOf returns the stage err was tagged with, if any
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// ExitCode maps err to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if stage, ok := StageOf(err); ok {
		return stage.ExitCode()
	}
	return 1
}
