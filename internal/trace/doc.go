// Package trace records what the binding compiler is doing as nested spans.
//
// A run opens a driver span and every declaration set gets an input span;
// everything below an input span carries that input's path, so events of
// concurrent workers can be told apart. Each pipeline step of
// library.Generate opens a pass span, and the monomorphizer emits one item
// point per instantiation.
//
//	bindgen generate --trace=- --trace-level=detail api.toml
//
// Levels: off, error (ring dump only), phase (driver and inputs), detail
// (passes) and debug (items).
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartInput(ctx, "api.toml")
//	defer span.End("")
package trace
