package personachat

import (
	"errors"
	"fmt"
)

// ErrEngineNotReady is returned when chat or generation is attempted while
// the engine is not in the ready state. It is the only pipeline error
// surfaced to callers as a failure; everything below it degrades to a
// best-effort textual response.
var ErrEngineNotReady = errors.New("generation engine not ready")

// EngineLoadError reports a failed model resource acquisition. Fatal to
// serving generations, but the process keeps running and reports unhealthy.
type EngineLoadError struct {
	Backend string
	Err     error
}

func (e *EngineLoadError) Error() string {
	return fmt.Sprintf("engine load failed (%s): %v", e.Backend, e.Err)
}

func (e *EngineLoadError) Unwrap() error { return e.Err }

// GenerationError reports a backend failure or degenerate output for a
// single generation call. Recovered locally via the template fallback, never
// surfaced to chat callers.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }
