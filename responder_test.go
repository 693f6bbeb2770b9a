package personachat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cultureweave/personachat/persona"
)

// fakeEngine scripts engine behavior for orchestrator tests.
type fakeEngine struct {
	ready   bool
	out     string
	err     error
	delay   time.Duration
	panics  bool
	lastReq GenerationRequest
}

func (f *fakeEngine) Load(context.Context) error { f.ready = true; return nil }
func (f *fakeEngine) Unload()                    { f.ready = false }
func (f *fakeEngine) Ready() bool                { return f.ready }
func (f *fakeEngine) Info() EngineInfo {
	return EngineInfo{Name: "fake", Device: "cpu", Ready: f.ready}
}

func (f *fakeEngine) Generate(_ context.Context, req GenerationRequest) (string, error) {
	f.lastReq = req
	if f.panics {
		panic("scripted engine panic")
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.out, f.err
}

func newTestResponder(e Engine, cfg ...ResponderConfig) *Responder {
	return NewResponder(e, persona.NewRegistry(), zerolog.Nop(), cfg...)
}

func TestChat_EngineNotReady(t *testing.T) {
	r := newTestResponder(&fakeEngine{ready: false})
	result := r.Chat(context.Background(), ChatRequest{Message: "hi", Persona: "friend", Culture: "delhi"})

	if result.Success {
		t.Fatal("expected failure while engine unloaded")
	}
	if !strings.Contains(result.Error, "not ready") {
		t.Fatalf("expected not-ready error, got %q", result.Error)
	}
}

func TestChat_GeneratedOutputPassesThrough(t *testing.T) {
	e := &fakeEngine{ready: true, out: "Namaste ji! Tell me everything about it."}
	r := newTestResponder(e)
	result := r.Chat(context.Background(), ChatRequest{Message: "I went to the market", Persona: "friend", Culture: "delhi"})

	if !result.Success {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	if result.Response != e.out {
		t.Fatalf("expected engine output, got %q", result.Response)
	}
	if result.Persona != "friend" || result.Culture != "delhi" {
		t.Fatalf("persona/culture not echoed: %+v", result)
	}
}

func TestChat_SamplingParameters(t *testing.T) {
	e := &fakeEngine{ready: true, out: "a sufficiently long engine reply"}
	r := newTestResponder(e)
	r.Chat(context.Background(), ChatRequest{Message: "hello", Persona: "friend", Culture: "delhi"})

	if e.lastReq.MaxNewTokens != 150 || e.lastReq.Temperature != 0.8 || e.lastReq.TopP != 0.9 {
		t.Fatalf("unexpected chat sampling config: %+v", e.lastReq)
	}
	if !strings.HasSuffix(e.lastReq.Prompt, "User: hello\nAssistant:") {
		t.Fatal("prompt missing generation cursor")
	}
}

func TestChat_ShortOutputFallsBack(t *testing.T) {
	e := &fakeEngine{ready: true, out: "  ok   "} // <10 chars after trimming
	r := newTestResponder(e)
	msg := "Is this fun?"
	result := r.Chat(context.Background(), ChatRequest{Message: msg, Persona: "friend", Culture: "delhi"})

	if !result.Success {
		t.Fatalf("fallback path must still succeed: %s", result.Error)
	}
	want := persona.FallbackResponse(persona.NewRegistry(), msg, "friend", "delhi")
	if result.Response != want {
		t.Fatalf("expected exact fallback output\n got: %q\nwant: %q", result.Response, want)
	}
}

func TestChat_ShortMultibyteOutputFallsBack(t *testing.T) {
	// Five characters in fifteen bytes; the ten-character minimum applies
	// to characters.
	e := &fakeEngine{ready: true, out: "ありがとう"}
	r := newTestResponder(e)
	msg := "thank you so much"
	result := r.Chat(context.Background(), ChatRequest{Message: msg, Persona: "friend", Culture: "japanese"})

	want := persona.FallbackResponse(persona.NewRegistry(), msg, "friend", "japanese")
	if !result.Success || result.Response != want {
		t.Fatalf("expected fallback for five-character reply, got %+v", result)
	}
}

func TestChat_EmptyOutputFallsBack(t *testing.T) {
	e := &fakeEngine{ready: true, out: ""}
	r := newTestResponder(e)
	result := r.Chat(context.Background(), ChatRequest{Message: "hello there friend", Persona: "mentor", Culture: "berlin"})

	want := persona.FallbackResponse(persona.NewRegistry(), "hello there friend", "mentor", "berlin")
	if !result.Success || result.Response != want {
		t.Fatalf("expected fallback, got %+v", result)
	}
}

func TestChat_EngineErrorFallsBack(t *testing.T) {
	e := &fakeEngine{ready: true, err: &GenerationError{Reason: "backend request"}}
	r := newTestResponder(e)
	result := r.Chat(context.Background(), ChatRequest{Message: "my job is rough", Persona: "therapist", Culture: "japanese"})

	want := persona.FallbackResponse(persona.NewRegistry(), "my job is rough", "therapist", "japanese")
	if !result.Success || result.Response != want {
		t.Fatalf("expected fallback, got %+v", result)
	}
}

func TestChat_TimeoutTreatedAsFailure(t *testing.T) {
	e := &fakeEngine{ready: true, out: "an answer that arrives far too late", delay: 300 * time.Millisecond}
	r := newTestResponder(e, ResponderConfig{GenerationTimeout: 30 * time.Millisecond, MaxConcurrent: 1})
	result := r.Chat(context.Background(), ChatRequest{Message: "anyone home?", Persona: "friend", Culture: "delhi"})

	want := persona.FallbackResponse(persona.NewRegistry(), "anyone home?", "friend", "delhi")
	if !result.Success || result.Response != want {
		t.Fatalf("timeout should degrade to fallback, got %+v", result)
	}
}

func TestChat_EnginePanicFallsBack(t *testing.T) {
	e := &fakeEngine{ready: true, panics: true}
	r := newTestResponder(e)
	result := r.Chat(context.Background(), ChatRequest{Message: "still there?", Persona: "friend", Culture: "delhi"})

	want := persona.FallbackResponse(persona.NewRegistry(), "still there?", "friend", "delhi")
	if !result.Success || result.Response != want {
		t.Fatalf("engine panic should degrade to fallback, got %+v", result)
	}
}

func TestChat_UnknownKeysStillRespond(t *testing.T) {
	e := &fakeEngine{ready: true, err: &GenerationError{Reason: "down"}}
	r := newTestResponder(e)
	result := r.Chat(context.Background(), ChatRequest{Message: "hi", Persona: "pirate", Culture: "atlantis"})

	if !result.Success || result.Response == "" {
		t.Fatalf("unknown keys must degrade to defaults, got %+v", result)
	}
}

func TestGenerateStyledText_EngineOutputAsIs(t *testing.T) {
	e := &fakeEngine{ready: true, out: "Once upon a midnight dreary, a server hummed."}
	r := newTestResponder(e)
	result := r.GenerateStyledText(context.Background(), GenerateRequest{Prompt: "a poem about servers", Style: "poetic"})

	if !result.Success || result.GeneratedText != e.out {
		t.Fatalf("expected engine output, got %+v", result)
	}
	if result.Style != "poetic" {
		t.Fatalf("style not echoed: %+v", result)
	}
	if e.lastReq.Temperature != 0.85 || e.lastReq.TopP != 0.9 {
		t.Fatalf("expected poetic sampling params, got %+v", e.lastReq)
	}
	if e.lastReq.MaxNewTokens != 512 {
		t.Fatalf("expected default max tokens 512, got %d", e.lastReq.MaxNewTokens)
	}
}

func TestGenerateStyledText_NoShortOutputFallback(t *testing.T) {
	// Unlike chat, styled generation returns short output untouched.
	e := &fakeEngine{ready: true, out: "brief"}
	r := newTestResponder(e)
	result := r.GenerateStyledText(context.Background(), GenerateRequest{Prompt: "say something", Style: "casual"})

	if !result.Success || result.GeneratedText != "brief" {
		t.Fatalf("short styled output must pass through, got %+v", result)
	}
}

func TestGenerateStyledText_FailureSurfaced(t *testing.T) {
	e := &fakeEngine{ready: true, err: &GenerationError{Reason: "backend request"}}
	r := newTestResponder(e)
	result := r.GenerateStyledText(context.Background(), GenerateRequest{Prompt: "x", Style: "formal"})

	if result.Success {
		t.Fatal("expected failure to surface")
	}
	if result.Error == "" || result.GeneratedText != "" {
		t.Fatalf("expected error with empty text, got %+v", result)
	}
}

func TestGenerateStyledText_EngineNotReady(t *testing.T) {
	r := newTestResponder(&fakeEngine{ready: false})
	result := r.GenerateStyledText(context.Background(), GenerateRequest{Prompt: "x", Style: "creative"})
	if result.Success {
		t.Fatal("expected failure while engine unloaded")
	}
}
