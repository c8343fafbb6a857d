package trace

import (
	"sync/atomic"
	"time"
)

var counters struct {
	seq  atomic.Uint64
	span atomic.Uint64
}

func nextSeq() uint64 { return counters.seq.Add(1) }

// Span is an open begin event waiting for its End.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	input   string
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var nopSpan = &Span{tracer: Nop}

func open(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().Retains(scope) {
		return nopSpan
	}
	s := &Span{
		tracer:  t,
		id:      counters.span.Add(1),
		parent:  parent.SpanID,
		input:   parent.Input,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Input:    s.input,
		Name:     name,
	})
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Input:    s.input,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  dur,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
