package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"bindgen/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// WriteTimings prints one JSON line per result, in input order.
func WriteTimings(w io.Writer, results []*Result) error {
	enc := json.NewEncoder(w)
	for _, res := range results {
		if res == nil {
			continue
		}
		payload := timingPayload{
			Kind:    "input",
			Path:    res.Path,
			Cached:  res.Cached,
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
		}
		if payload.Phases == nil {
			payload.Phases = []observ.PhaseReport{}
		}
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("write timings: %w", err)
		}
	}
	return nil
}
