// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Envelope is the uniform response shape handed to callers. Every operation
// returns a usable payload; degraded results are signaled through the payload
// itself (UsedFallback, Confidence), never through Success=false, which is
// reserved for caller mistakes such as an unknown destination.
type Envelope struct {
	// Success reports whether Data is populated.
	Success bool `json:"success" yaml:"success"`

	// Data is the operation payload.
	Data any `json:"data,omitempty" yaml:"data,omitempty"`

	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Timestamp is when the envelope was produced.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Source names the component or provider set that satisfied the request.
	Source string `json:"source" yaml:"source"`

	// Cached reports whether the payload came from the cache layer.
	Cached bool `json:"cached" yaml:"cached"`

	// ResponseTimeMs is the wall-clock time spent serving the request.
	ResponseTimeMs int64 `json:"response_time_ms" yaml:"response_time_ms"`
}

// NewEnvelope wraps a successful payload.
func NewEnvelope(data any, source string, cached bool, elapsed time.Duration) Envelope {
	return Envelope{
		Success:        true,
		Data:           data,
		Timestamp:      time.Now().UTC(),
		Source:         source,
		Cached:         cached,
		ResponseTimeMs: elapsed.Milliseconds(),
	}
}

// ErrorEnvelope wraps a caller-facing failure.
func ErrorEnvelope(err error, source string, elapsed time.Duration) Envelope {
	return Envelope{
		Success:        false,
		Error:          err.Error(),
		Timestamp:      time.Now().UTC(),
		Source:         source,
		ResponseTimeMs: elapsed.Milliseconds(),
	}
}
