package driver

import "time"

// Stage describes a step of generating one header.
type Stage string

const (
	StageLoad     Stage = "load"
	StageDecode   Stage = "decode"
	StageGenerate Stage = "generate"
	StageWrite    Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one input.
type Event struct {
	Input   string
	Stage   Stage
	Status  Status
	Err     error
	Cached  bool
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Run calls OnEvent from its worker
// goroutines, so implementations must be safe for concurrent use.
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

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
