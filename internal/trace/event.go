package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI invocation.
	ScopeDriver Scope = iota + 1
	// ScopeInput covers one declaration set.
	ScopeInput
	// ScopePass covers one pipeline step (exclude, rename, mono, deps, ...).
	ScopePass
	// ScopeItem covers work on a single declaration.
	ScopeItem
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeInput:  "input",
	ScopePass:   "pass",
	ScopeItem:   "item",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	// Input is the declaration set the event belongs to; empty above the
	// input scope.
	Input   string
	Name    string
	Detail  string
	Elapsed time.Duration // span ends only
	Extra   map[string]string
}
