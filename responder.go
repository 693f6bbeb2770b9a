package personachat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cultureweave/personachat/persona"
)

// Chat generation parameters, fixed by the pipeline contract.
const (
	chatMaxNewTokens = 150
	chatTemperature  = 0.8
	chatTopP         = 0.9

	// minChatChars is the minimum usable chat reply length; anything
	// shorter after trimming is replaced by the template fallback.
	minChatChars = 10

	defaultStyledMaxTokens = 512
)

// ResponderConfig tunes the orchestrator.
type ResponderConfig struct {
	// GenerationTimeout bounds each engine call; expiry is treated
	// identically to an engine failure. Default 60s.
	GenerationTimeout time.Duration
	// MaxConcurrent bounds generation calls in flight so the transport
	// layer stays responsive; the engine still serializes internally.
	// Default 4.
	MaxConcurrent int
}

// DefaultResponderConfig returns production defaults.
func DefaultResponderConfig() ResponderConfig {
	return ResponderConfig{
		GenerationTimeout: 60 * time.Second,
		MaxConcurrent:     4,
	}
}

// ChatRequest is one chat turn from the caller, who owns the history.
type ChatRequest struct {
	Message string
	Persona string
	Culture string
	History []ConversationTurn
}

// ChatResult is the outcome of one chat turn. Success is false only for
// service-unavailable and unexpected internal faults; engine failures and
// unknown keys degrade to a best-effort response with Success true.
type ChatResult struct {
	Response string `json:"response"`
	Persona  string `json:"persona"`
	Culture  string `json:"culture"`
	Success  bool   `json:"success"`
	Error    string `json:"error_message,omitempty"`
}

// GenerateRequest is a free-form styled text generation request. Persona
// and Culture are optional voice hints.
type GenerateRequest struct {
	Prompt    string
	Style     string
	Persona   string
	Culture   string
	MaxTokens int
}

// GenerateResult is the outcome of a styled generation.
type GenerateResult struct {
	GeneratedText string `json:"generated_text"`
	Style         string `json:"style"`
	Success       bool   `json:"success"`
	Error         string `json:"error_message,omitempty"`
}

// Responder composes the registry, prompt composer, engine and fallback
// generator into the public chat and generate operations.
type Responder struct {
	engine Engine
	reg    *persona.Registry
	cfg    ResponderConfig
	gate   chan struct{}
	log    zerolog.Logger
}

// NewResponder creates a Responder around an engine and catalog.
func NewResponder(engine Engine, reg *persona.Registry, log zerolog.Logger, config ...ResponderConfig) *Responder {
	cfg := DefaultResponderConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 60 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Responder{
		engine: engine,
		reg:    reg,
		cfg:    cfg,
		gate:   make(chan struct{}, cfg.MaxConcurrent),
		log:    log.With().Str("component", "responder").Logger(),
	}
}

// Chat builds the persona prompt for the message, invokes the engine, and
// substitutes the template fallback when the engine fails or returns a
// degenerate reply. Unexpected internal faults are caught and reported with
// Success false, never propagated as a panic.
func (r *Responder) Chat(ctx context.Context, req ChatRequest) (result ChatResult) {
	requestID := uuid.NewString()
	result = ChatResult{Persona: req.Persona, Culture: req.Culture}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("request_id", requestID).Interface("panic", rec).Msg("chat pipeline panic")
			result = ChatResult{
				Persona: req.Persona,
				Culture: req.Culture,
				Error:   fmt.Sprintf("internal error: %v", rec),
			}
			requestCount.WithLabelValues("chat", "error").Inc()
		}
	}()

	if !r.engine.Ready() {
		requestCount.WithLabelValues("chat", "unavailable").Inc()
		result.Error = ErrEngineNotReady.Error()
		return result
	}

	prompt := persona.ComposeChatPrompt(r.reg, req.Persona, req.Culture, req.History, req.Message)
	text, err := r.generate(ctx, GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: chatMaxNewTokens,
		Temperature:  chatTemperature,
		TopP:         chatTopP,
	})
	if err != nil || utf8.RuneCountInString(strings.TrimSpace(text)) < minChatChars {
		if err != nil {
			r.log.Warn().Str("request_id", requestID).Err(err).Msg("engine generation failed, using fallback")
		}
		text = persona.FallbackResponse(r.reg, req.Message, req.Persona, req.Culture)
		fallbackCount.Inc()
		requestCount.WithLabelValues("chat", "fallback").Inc()
	} else {
		requestCount.WithLabelValues("chat", "generated").Inc()
	}

	result.Response = text
	result.Success = true
	return result
}

// GenerateStyledText composes the style prompt and returns the engine
// output, or a failure as-is. Unlike Chat, short output is not replaced
// with a canned substitute: there is no persona fallback table for
// free-form generation, so a fabricated reply would be misleading.
func (r *Responder) GenerateStyledText(ctx context.Context, req GenerateRequest) (result GenerateResult) {
	requestID := uuid.NewString()
	result = GenerateResult{Style: req.Style}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Str("request_id", requestID).Interface("panic", rec).Msg("generate pipeline panic")
			result = GenerateResult{
				Style: req.Style,
				Error: fmt.Sprintf("internal error: %v", rec),
			}
			requestCount.WithLabelValues("generate", "error").Inc()
		}
	}()

	if !r.engine.Ready() {
		requestCount.WithLabelValues("generate", "unavailable").Inc()
		result.Error = ErrEngineNotReady.Error()
		return result
	}

	style := r.reg.LookupStyle(req.Style)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultStyledMaxTokens
	}

	prompt := persona.ComposeStylePrompt(r.reg, req.Style, req.Persona, req.Culture, req.Prompt)
	text, err := r.generate(ctx, GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: maxTokens,
		Temperature:  style.Temperature,
		TopP:         style.TopP,
	})
	if err != nil {
		r.log.Warn().Str("request_id", requestID).Err(err).Msg("styled generation failed")
		requestCount.WithLabelValues("generate", "failed").Inc()
		result.Error = err.Error()
		return result
	}

	requestCount.WithLabelValues("generate", "generated").Inc()
	result.GeneratedText = text
	result.Success = true
	return result
}

// generate dispatches one engine call through the worker gate under the
// bounded timeout. Timeout expiry and gate-wait cancellation are reported
// as generation errors, which callers treat like any other engine failure.
func (r *Responder) generate(ctx context.Context, req GenerationRequest) (string, error) {
	select {
	case r.gate <- struct{}{}:
		defer func() { <-r.gate }()
	case <-ctx.Done():
		return "", &GenerationError{Reason: "cancelled while queued", Err: ctx.Err()}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	type genResult struct {
		text string
		err  error
	}
	resultCh := make(chan genResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resultCh <- genResult{err: &GenerationError{Reason: fmt.Sprintf("engine panic: %v", rec)}}
			}
		}()
		text, err := r.engine.Generate(ctx, req)
		resultCh <- genResult{text: text, err: err}
	}()

	select {
	case res := <-resultCh:
		generationLatency.Observe(time.Since(start).Seconds())
		return res.text, res.err
	case <-ctx.Done():
		generationLatency.Observe(time.Since(start).Seconds())
		return "", &GenerationError{Reason: "generation timed out", Err: ctx.Err()}
	}
}

// Engine exposes the responder's engine for health and lifecycle endpoints.
func (r *Responder) Engine() Engine { return r.engine }
