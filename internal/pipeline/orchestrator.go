// Package pipeline runs one analysis request through the annotation stages
// and streams each stage's result as an ordered event.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ErrNoCompletion is returned by Execute when a run ends without emitting
// a terminal event.
var ErrNoCompletion = errors.New("run ended without completion")

// Orchestrator starts analysis runs over a shared Runtime.
type Orchestrator struct {
	rt     *Runtime
	logger *slog.Logger
}

// New creates an Orchestrator.
func New(rt *Runtime) *Orchestrator {
	return &Orchestrator{
		rt:     rt,
		logger: rt.Logger.With("pipeline", "analysis"),
	}
}

// Start begins a run and returns its stream. The run ends with exactly one
// analysis_complete or error event, or with no further events once ctx is
// cancelled. Events must be drained until closed or ctx cancelled.
func (o *Orchestrator) Start(ctx context.Context, req Request) *Stream {
	stream := newStream()
	go func() {
		stream.finish(o.run(ctx, req, stream.events))
	}()
	return stream
}

// Execute runs a request to completion and returns its terminal payload.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*Completion, error) {
	stream := o.Start(ctx, req)

	var completion *Completion
	for event := range stream.Events() {
		if c, ok := event.Data.(*Completion); ok {
			completion = c
		}
	}

	if err := stream.Err(); err != nil {
		return nil, err
	}
	if completion == nil {
		return nil, ErrNoCompletion
	}
	return completion, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request, events chan<- Event) error {
	r := &run{
		rt:       o.rt,
		req:      req,
		timeouts: o.rt.Config.Timeouts(),
		emitter:  &emitter{ctx: ctx, ch: events},
		logger:   o.logger,
		started:  time.Now(),
	}

	input, err := req.extractInput()
	if err != nil {
		return r.abort(ctx, &StageError{Stage: StageRequest, Err: err})
	}
	r.input = input

	graph, err := buildGraph(r)
	if err != nil {
		return r.abort(ctx, &StageError{Stage: StageRequest, Err: fmt.Errorf("build graph: %w", err)})
	}

	initial := state.New(nil)
	initial = initial.Set(KeyAnalysis, Analysis{})
	initial = initial.Set(KeyCompare, o.rt.compares(req))

	if _, err := graph.Execute(ctx, initial); err != nil {
		failure := r.failure
		if failure == nil {
			failure = &StageError{Stage: StageRequest, Err: fmt.Errorf("execute graph: %w", err)}
		}
		return r.abort(ctx, failure)
	}

	return nil
}

// abort ends a failed run. A cancelled run ends silently; any other failure
// is logged and reported in one error event.
func (r *run) abort(ctx context.Context, failure *StageError) error {
	if r.cancelled(ctx) {
		r.logger.InfoContext(ctx, "run cancelled", "stage", failure.Stage)
		return &StageError{Stage: failure.Stage, Err: ErrClientCancelled}
	}

	r.logger.ErrorContext(
		ctx, "run failed",
		"stage", failure.Stage,
		"error", failure.Err,
		"duration_ms", since(r.started),
	)

	r.emitter.emit(EventError, ErrorData{
		Error: failure.Err.Error(),
		Stage: failure.Stage,
	})
	return failure
}

func buildGraph(r *run) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("tolerance-analysis")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name string
		node state.StateNode
	}{
		{StageExtract, extractNode(r)},
		{StageClassify, classifyNode(r)},
		{StageCompare, compareNode(r)},
		{StageDatums, datumsNode(r)},
		{StageLookup, lookupNode(r)},
		{StageGenerate, generateNode(r)},
		{StageComplete, completeNode(r)},
	}
	for _, n := range nodes {
		if err := graph.AddNode(n.name, n.node); err != nil {
			return nil, err
		}
	}

	// extract → classify (unconditional)
	if err := graph.AddEdge(StageExtract, StageClassify, nil); err != nil {
		return nil, err
	}

	// classify → compare (when the request asks for a baseline comparison)
	if err := graph.AddEdge(StageClassify, StageCompare, comparing); err != nil {
		return nil, err
	}

	// classify → datums (otherwise)
	if err := graph.AddEdge(StageClassify, StageDatums, state.Not(comparing)); err != nil {
		return nil, err
	}

	// compare → datums → lookup → generate → complete (unconditional)
	for _, edge := range [][2]string{
		{StageCompare, StageDatums},
		{StageDatums, StageLookup},
		{StageLookup, StageGenerate},
		{StageGenerate, StageComplete},
	} {
		if err := graph.AddEdge(edge[0], edge[1], nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(StageExtract); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(StageComplete); err != nil {
		return nil, err
	}

	return graph, nil
}
