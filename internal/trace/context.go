package trace

import (
	"context"
	"time"
)

type tracerKey struct{}

type spanKey struct{}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanContext identifies the innermost open span and the input it works on.
type SpanContext struct {
	SpanID uint64
	Input  string
}

func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	sc, _ := ctx.Value(spanKey{}).(SpanContext)
	return sc
}

// Start opens a span under the one carried by ctx.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	parent := CurrentSpan(ctx)
	span := open(FromContext(ctx), scope, name, parent)
	if span.id == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, SpanContext{SpanID: span.id, Input: span.input}), span
}

// StartInput opens the input span for one declaration set. Every event below
// it is attributed to input.
func StartInput(ctx context.Context, input string) (context.Context, *Span) {
	parent := CurrentSpan(ctx)
	parent.Input = input
	span := open(FromContext(ctx), ScopeInput, "input", parent)
	if span.id == 0 {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, SpanContext{SpanID: span.id, Input: input}), span
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().Retains(scope) {
		return
	}
	parent := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent.SpanID,
		Input:    parent.Input,
		Name:     name,
		Detail:   detail,
	})
}
