package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JaimeStill/tolerance/internal/inference"
)

// run carries the per-request context that graph nodes share. Nodes record
// the failing stage here because the graph reports only the error.
type run struct {
	rt       *Runtime
	req      Request
	input    inference.ExtractInput
	timeouts Timeouts
	emitter  *emitter
	logger   *slog.Logger
	started  time.Time
	failure  *StageError
}

// fail records the stage that ended the run and returns the error for the graph.
func (r *run) fail(stage string, err error) error {
	if r.failure == nil {
		r.failure = &StageError{Stage: stage, Err: err}
	}
	return r.failure
}

// emit sends one event, failing the stage as cancelled when the consumer is gone.
func (r *run) emit(stage, name string, data any) error {
	if !r.emitter.emit(name, data) {
		return r.fail(stage, ErrClientCancelled)
	}
	return nil
}

var progressSteps = []struct {
	stage   string
	message string
}{
	{StageExtract, "Extracting features"},
	{StageClassify, "Classifying geometric controls"},
	{StageLookup, "Matching ASME Y14.5 standards"},
	{StageGenerate, "Generating GD&T callouts"},
	{StageComplete, "Finalizing results"},
}

// progress emits the progress event for the step that stage starts.
func (r *run) progress(stage string) error {
	for i, step := range progressSteps {
		if step.stage == stage {
			return r.emit(stage, EventProgress, ProgressData{
				Stage:   stage,
				Message: step.message,
				Step:    i + 1,
				Total:   len(progressSteps),
			})
		}
	}
	return nil
}

func (r *run) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return r.failure != nil && errors.Is(r.failure.Err, ErrClientCancelled)
}
