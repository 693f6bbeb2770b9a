package personachat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// LlamaEngineConfig configures the llama.cpp server backend.
type LlamaEngineConfig struct {
	BaseURL string        // e.g. "http://127.0.0.1:8080"
	Model   string        // display name reported in Info
	Device  string        // "cpu", "cuda", "metal", ...
	Timeout time.Duration // per-request HTTP timeout, default 120s
}

// LlamaEngine generates text through a local llama.cpp server. The model
// weights live in the server process; Load verifies the server is healthy
// and warms the model with a one-token completion, Unload releases the HTTP
// client's idle connections.
type LlamaEngine struct {
	cfg        LlamaEngineConfig
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.Mutex // serializes Load/Unload/Generate
	state engineState
}

// NewLlamaEngine creates an engine in the unloaded state.
func NewLlamaEngine(cfg LlamaEngineConfig, log zerolog.Logger) *LlamaEngine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Device == "" {
		cfg.Device = "cpu"
	}
	return &LlamaEngine{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "llama_engine").Logger(),
	}
}

// Load checks server health and runs a one-token warm-up completion so the
// first real request does not pay the model load cost.
func (e *LlamaEngine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.ready() {
		return nil
	}
	e.state.set(StateLoading)
	e.log.Info().Str("base_url", e.cfg.BaseURL).Str("device", e.cfg.Device).Msg("loading model backend")

	if err := e.health(ctx); err != nil {
		e.state.set(StateUnloaded)
		return &EngineLoadError{Backend: "llamacpp", Err: err}
	}
	if _, err := e.completion(ctx, map[string]any{
		"prompt":    "Hello",
		"n_predict": 1,
		"stream":    false,
	}); err != nil {
		e.state.set(StateUnloaded)
		return &EngineLoadError{Backend: "llamacpp", Err: fmt.Errorf("warm-up completion: %w", err)}
	}

	e.state.set(StateReady)
	e.log.Info().Msg("model backend ready")
	return nil
}

// Generate runs one completion. Only valid in the ready state.
func (e *LlamaEngine) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.ready() {
		return "", ErrEngineNotReady
	}

	content, err := e.completion(ctx, map[string]any{
		"prompt":         req.Prompt,
		"n_predict":      req.MaxNewTokens,
		"temperature":    req.Temperature,
		"top_p":          req.TopP,
		"repeat_penalty": 1.2,
		"stream":         false,
		"stop":           []string{"\nUser:", "\nAssistant:"},
	})
	if err != nil {
		return "", &GenerationError{Reason: "backend request", Err: err}
	}

	out := postprocessOutput(content, req.MaxNewTokens)
	if utf8.RuneCountInString(out) < MinDecodedChars {
		return "", &GenerationError{Reason: "degenerate output"}
	}
	return out, nil
}

// Unload releases client resources. Calling it while already unloaded is a
// no-op.
func (e *LlamaEngine) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.get() == StateUnloaded {
		return
	}
	e.state.set(StateUnloaded)
	e.httpClient.CloseIdleConnections()
	e.log.Info().Msg("model backend unloaded")
}

func (e *LlamaEngine) Ready() bool { return e.state.ready() }

func (e *LlamaEngine) Info() EngineInfo {
	return EngineInfo{
		Name:        e.cfg.Model,
		Device:      e.cfg.Device,
		Ready:       e.state.ready(),
		Accelerator: e.cfg.Device != "cpu",
	}
}

func (e *LlamaEngine) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (e *LlamaEngine) completion(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(b))
	}

	var decoded struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return decoded.Content, nil
}
