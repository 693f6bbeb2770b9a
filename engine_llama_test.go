package personachat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newLlamaBackend(t *testing.T, content string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/completion", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"content": content})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestLlamaEngine(t *testing.T, backendURL string) *LlamaEngine {
	t.Helper()
	return NewLlamaEngine(LlamaEngineConfig{
		BaseURL: backendURL,
		Model:   "test-model",
		Device:  "cpu",
	}, zerolog.Nop())
}

func TestLlamaEngine_LoadAndGenerate(t *testing.T) {
	backend := newLlamaBackend(t, "Namaste! It sounds like you had quite a day.")
	e := newTestLlamaEngine(t, backend.URL)

	if e.Ready() {
		t.Fatal("engine must start unloaded")
	}
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !e.Ready() {
		t.Fatal("engine should be ready after load")
	}

	out, err := e.Generate(context.Background(), GenerationRequest{
		Prompt: "hello", MaxNewTokens: 150, Temperature: 0.8, TopP: 0.9,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Namaste! It sounds like you had quite a day." {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLlamaEngine_GenerateWhileUnloaded(t *testing.T) {
	backend := newLlamaBackend(t, "hi there friend")
	e := newTestLlamaEngine(t, backend.URL)

	_, err := e.Generate(context.Background(), GenerationRequest{Prompt: "x", MaxNewTokens: 10})
	if !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}

func TestLlamaEngine_DegenerateOutputIsFailure(t *testing.T) {
	backend := newLlamaBackend(t, "  a \n ")
	e := newTestLlamaEngine(t, backend.URL)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := e.Generate(context.Background(), GenerationRequest{Prompt: "x", MaxNewTokens: 10})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for sub-3-char output, got %v", err)
	}
}

func TestLlamaEngine_OutputLengthCountsRunes(t *testing.T) {
	// Two characters in six bytes; the minimum applies to characters.
	backend := newLlamaBackend(t, "はい")
	e := newTestLlamaEngine(t, backend.URL)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := e.Generate(context.Background(), GenerationRequest{Prompt: "x", MaxNewTokens: 10})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for two-character output, got %v", err)
	}
}

func TestLlamaEngine_LoadFailureLeavesUnloaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	e := newTestLlamaEngine(t, srv.URL)
	err := e.Load(context.Background())
	var loadErr *EngineLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected EngineLoadError, got %v", err)
	}
	if e.Ready() {
		t.Fatal("engine must report unloaded after failed load")
	}

	// Every generate must short-circuit to failure until a load succeeds.
	if _, err := e.Generate(context.Background(), GenerationRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected generate to fail after load failure")
	}
}

func TestLlamaEngine_UnloadIdempotent(t *testing.T) {
	backend := newLlamaBackend(t, "some perfectly fine output")
	e := newTestLlamaEngine(t, backend.URL)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	e.Unload()
	e.Unload() // second call is a no-op, not an error
	if e.Ready() {
		t.Fatal("engine should be unloaded")
	}
}

func TestLlamaEngine_Info(t *testing.T) {
	backend := newLlamaBackend(t, "fine output here")
	e := NewLlamaEngine(LlamaEngineConfig{
		BaseURL: backend.URL,
		Model:   "gemma-test",
		Device:  "cuda",
	}, zerolog.Nop())

	info := e.Info()
	if info.Name != "gemma-test" || info.Device != "cuda" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Ready {
		t.Fatal("info should report not ready before load")
	}
	if !info.Accelerator {
		t.Fatal("non-cpu device should report accelerator available")
	}

	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !e.Info().Ready {
		t.Fatal("info should report ready after load")
	}
}
