package engine

import (
	"context"
	"fmt"

	"github.com/dm/aadash/internal/client"
)

// PreflightState is the outcome of the startup dependency check.
type PreflightState int

const (
	PreflightPending PreflightState = iota
	PreflightReady
	PreflightFailed
)

func (s PreflightState) String() string {
	switch s {
	case PreflightReady:
		return "ready"
	case PreflightFailed:
		return "failed"
	default:
		return "pending"
	}
}

// PreflightError reports that the analytics backend was unavailable at startup.
type PreflightError struct {
	Err error
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("preflight: %v", e.Err)
}

func (e *PreflightError) Unwrap() error {
	return e.Err
}

// PreflightGate runs the backend check once per session. The first recorded
// outcome is final: a failure is never retried.
type PreflightGate struct {
	client client.AnalyticsClient
	state  PreflightState
	err    error
}

// NewPreflightGate returns a gate in the pending state.
func NewPreflightGate(c client.AnalyticsClient) *PreflightGate {
	return &PreflightGate{client: c}
}

// Probe calls the backend preflight endpoint without touching gate state, so
// it can run off the UI loop. The error, if any, is a *PreflightError.
func (g *PreflightGate) Probe(ctx context.Context) error {
	if g.client == nil {
		return &PreflightError{Err: fmt.Errorf("no analytics client configured")}
	}
	if err := g.client.Preflight(ctx); err != nil {
		return &PreflightError{Err: err}
	}
	return nil
}

// Record stores the probe outcome. Later calls are ignored once the gate has
// left the pending state.
func (g *PreflightGate) Record(err error) PreflightState {
	if g.state != PreflightPending {
		return g.state
	}
	if err != nil {
		g.state = PreflightFailed
		g.err = err
		return g.state
	}
	g.state = PreflightReady
	return g.state
}

// Check probes and records in one call.
func (g *PreflightGate) Check(ctx context.Context) error {
	if g.state != PreflightPending {
		return g.err
	}
	g.Record(g.Probe(ctx))
	return g.err
}

// State returns the current gate state.
func (g *PreflightGate) State() PreflightState {
	return g.state
}

// Err returns the recorded failure, or nil.
func (g *PreflightGate) Err() error {
	return g.err
}
