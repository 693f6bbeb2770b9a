package personachat

import (
	"context"

	"go.uber.org/atomic"
)

// EngineState is the lifecycle state of a generation engine.
// Transitions: Unloaded → Loading → Ready → Unloaded, with
// Loading → Unloaded on initialization failure.
type EngineState int32

const (
	StateUnloaded EngineState = iota
	StateLoading
	StateReady
)

func (s EngineState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unloaded"
	}
}

// GenerationRequest carries one prompt and its sampling configuration to the
// engine. Created per call, consumed once.
type GenerationRequest struct {
	Prompt       string
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// EngineInfo describes the backing model resource.
type EngineInfo struct {
	Name        string `json:"model_name"`
	Device      string `json:"device"`
	Ready       bool   `json:"is_loaded"`
	Accelerator bool   `json:"accelerator_available"`
}

// Engine wraps a text-generation backend. Implementations own the
// load/unload lifecycle of the heavy model resource and serialize their own
// Load/Unload/Generate calls; callers still must not assume concurrent
// generation is cheap — each Generate is a long blocking operation.
type Engine interface {
	// Load acquires model resources. Failure is non-fatal to the process:
	// the engine reports unloaded and every Generate short-circuits to an
	// error until a later Load succeeds.
	Load(ctx context.Context) error

	// Generate returns generated text for the prompt, or an error. Decoded
	// output that strips to fewer than MinDecodedChars characters is
	// reported as a *GenerationError, identical to a backend failure.
	Generate(ctx context.Context, req GenerationRequest) (string, error)

	// Unload releases model resources. Idempotent: unloading an already
	// unloaded engine is a no-op.
	Unload()

	Ready() bool
	Info() EngineInfo
}

// MinDecodedChars is the minimum usable length of decoded engine output;
// anything shorter after trimming is treated as an engine failure.
const MinDecodedChars = 3

// engineState wraps the atomic lifecycle value shared by engine
// implementations.
type engineState struct {
	v atomic.Int32
}

func (s *engineState) get() EngineState     { return EngineState(s.v.Load()) }
func (s *engineState) set(next EngineState) { s.v.Store(int32(next)) }
func (s *engineState) ready() bool          { return s.get() == StateReady }
