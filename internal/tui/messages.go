package tui

import (
	"github.com/dm/aadash/internal/client"
	"github.com/dm/aadash/internal/engine"
)

// PreflightMsg carries the outcome of the startup backend check.
type PreflightMsg struct{ Err error }

// RoundMsg delivers a finished fetch round to the Update loop, where it is
// resolved against the latest generation.
type RoundMsg struct{ Result engine.RoundResult }

// EventMsg is a push notification from the backend event stream.
type EventMsg struct{ Event client.Event }

// WatchStoppedMsg signals that the event stream ended.
type WatchStoppedMsg struct{ Err error }

// WatchRetryMsg triggers a reconnect of the event stream.
type WatchRetryMsg struct{}
