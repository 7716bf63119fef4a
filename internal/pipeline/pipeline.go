// Package pipeline defines the progress events the merge phases emit for
// UI consumers. The core never renders anything itself.
package pipeline

import "time"

// Stage describes a high-level merge phase.
type Stage string

const (
	// StageScan is the parallel per-mod parsing phase.
	StageScan Stage = "scan"
	// StageResolve is the sequential collision-resolution phase.
	StageResolve Stage = "resolve"
	// StageWrite is the sequential output phase.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a mod (or for the whole phase when Mod is empty).
type Event struct {
	Mod     string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Emit sends evt to sink when one is attached.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
