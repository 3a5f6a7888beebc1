package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Stage identifies which half of the pipeline an error came from.
type Stage string

const (
	StageIntent   Stage = "intent"
	StageSolution Stage = "solution"
)

// FailKind 错误分类，用于诊断事件和指标。
type FailKind string

const (
	FailNetwork FailKind = "network"
	FailTimeout FailKind = "timeout"
	FailParse   FailKind = "parse"
)

// StageError wraps a stage failure with its classification so the
// orchestrator can report it without inspecting the cause chain.
type StageError struct {
	Stage Stage
	Kind  FailKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Classify wraps a model-call error as a StageError, distinguishing timeouts
// from other transport failures.
func Classify(stage Stage, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}

	kind := FailNetwork
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FailTimeout
	case errors.As(err, &nerr) && nerr.Timeout():
		kind = FailTimeout
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

func parseError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: FailParse, Err: err}
}
