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

// HostedEngineConfig configures an OpenAI-compatible hosted completion API.
type HostedEngineConfig struct {
	BaseURL string // e.g. "https://api.example.com/v1"
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HostedEngine delegates generation to a hosted completion API behind the
// same Engine contract as the local backend: prompt in, text or failure out.
// There is no heavy local resource; Load verifies the endpoint accepts the
// configured credentials.
type HostedEngine struct {
	cfg        HostedEngineConfig
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.Mutex
	state engineState
}

// NewHostedEngine creates a hosted engine in the unloaded state.
func NewHostedEngine(cfg HostedEngineConfig, log zerolog.Logger) *HostedEngine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &HostedEngine{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "hosted_engine").Logger(),
	}
}

// Load probes the models endpoint to verify reachability and credentials.
func (e *HostedEngine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.ready() {
		return nil
	}
	e.state.set(StateLoading)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.BaseURL+"/models", nil)
	if err != nil {
		e.state.set(StateUnloaded)
		return &EngineLoadError{Backend: "hosted", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.state.set(StateUnloaded)
		return &EngineLoadError{Backend: "hosted", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		e.state.set(StateUnloaded)
		return &EngineLoadError{Backend: "hosted", Err: fmt.Errorf("models probe returned status %d", resp.StatusCode)}
	}

	e.state.set(StateReady)
	e.log.Info().Str("model", e.cfg.Model).Msg("hosted backend ready")
	return nil
}

// Generate runs one completion against the hosted API.
func (e *HostedEngine) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.ready() {
		return "", ErrEngineNotReady
	}

	payload := map[string]any{
		"model":       e.cfg.Model,
		"prompt":      req.Prompt,
		"max_tokens":  req.MaxNewTokens,
		"temperature": req.Temperature,
		"top_p":       req.TopP,
		"stop":        []string{"\nUser:", "\nAssistant:"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &GenerationError{Reason: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Reason: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Reason: "backend request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", &GenerationError{Reason: fmt.Sprintf("backend status %d: %s", resp.StatusCode, string(b))}
	}

	var decoded struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &GenerationError{Reason: "decode response", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &GenerationError{Reason: "no choices in response"}
	}

	out := postprocessOutput(decoded.Choices[0].Text, req.MaxNewTokens)
	if utf8.RuneCountInString(out) < MinDecodedChars {
		return "", &GenerationError{Reason: "degenerate output"}
	}
	return out, nil
}

// Unload drops the client's idle connections. Idempotent.
func (e *HostedEngine) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.get() == StateUnloaded {
		return
	}
	e.state.set(StateUnloaded)
	e.httpClient.CloseIdleConnections()
}

func (e *HostedEngine) Ready() bool { return e.state.ready() }

func (e *HostedEngine) Info() EngineInfo {
	return EngineInfo{
		Name:        e.cfg.Model,
		Device:      "remote",
		Ready:       e.state.ready(),
		Accelerator: false,
	}
}
