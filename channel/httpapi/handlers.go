package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	personachat "github.com/cultureweave/personachat"
	"github.com/cultureweave/personachat/persona"
)

type turnDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

type chatRequestDTO struct {
	Message   string    `json:"message"`
	Persona   string    `json:"persona"`
	Culture   string    `json:"culture"`
	History   []turnDTO `json:"conversation_history"`
	SessionID string    `json:"session_id,omitempty"`
}

type generateRequestDTO struct {
	Prompt    string `json:"prompt"`
	Style     string `json:"style"`
	Persona   string `json:"persona,omitempty"`
	Culture   string `json:"culture,omitempty"`
	MaxTokens int    `json:"max_tokens"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error_message"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Persona Chat API with cultural variations",
		"endpoints": map[string]string{
			"chat":         "/chat",
			"generate":     "/generate",
			"personas":     "/personas",
			"cultures":     "/cultures",
			"combinations": "/combinations",
			"styles":       "/styles",
			"health":       "/health",
			"metrics":      "/metrics",
		},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var dto chatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if dto.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	if dto.Persona == "" {
		dto.Persona = persona.DefaultPersona
	}
	if dto.Culture == "" {
		dto.Culture = persona.DefaultCulture
	}
	if !s.svc.Engine().Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "model not loaded"})
		return
	}

	history := turnsFromDTO(dto.History)
	if len(history) == 0 && dto.SessionID != "" && s.history != nil {
		stored, err := s.history.Recent(r.Context(), dto.SessionID, persona.HistoryWindow)
		if err != nil {
			s.log.Warn().Err(err).Str("session", dto.SessionID).Msg("history load failed")
		} else {
			history = stored
		}
	}

	result := s.svc.Chat(r.Context(), personachat.ChatRequest{
		Message: dto.Message,
		Persona: dto.Persona,
		Culture: dto.Culture,
		History: history,
	})

	if result.Success && dto.SessionID != "" && s.history != nil {
		now := time.Now().UTC()
		err := s.history.Append(r.Context(), dto.SessionID,
			personachat.ConversationTurn{Role: personachat.RoleUser, Content: dto.Message, Timestamp: now},
			personachat.ConversationTurn{Role: personachat.RoleAssistant, Content: result.Response, Timestamp: now},
		)
		if err != nil {
			s.log.Warn().Err(err).Str("session", dto.SessionID).Msg("history append failed")
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var dto generateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if dto.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}
	if dto.Style == "" {
		dto.Style = persona.DefaultStyle
	}
	if !s.svc.Engine().Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "model not loaded"})
		return
	}

	result := s.svc.GenerateStyledText(r.Context(), personachat.GenerateRequest{
		Prompt:    dto.Prompt,
		Style:     dto.Style,
		Persona:   dto.Persona,
		Culture:   dto.Culture,
		MaxTokens: dto.MaxTokens,
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePersonas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"personas": s.reg.Personas(), "success": true})
}

func (s *Server) handleCultures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cultures": s.reg.Cultures(), "success": true})
}

func (s *Server) handleCombinations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.Combinations())
}

func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"styles": s.reg.Styles(), "success": true})
}

// handleTestPersona returns the composed system prompt for a persona ×
// culture pair so operators can inspect what the engine will be steered with.
func (s *Server) handleTestPersona(w http.ResponseWriter, r *http.Request) {
	personaKey := chi.URLParam(r, "persona")
	cultureKey := chi.URLParam(r, "culture")
	writeJSON(w, http.StatusOK, map[string]any{
		"persona": personaKey,
		"culture": cultureKey,
		"prompt":  persona.ComposePersonaPrompt(s.reg, personaKey, cultureKey),
		"success": true,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info := s.svc.Engine().Info()
	status := "healthy"
	if !info.Ready {
		status = "unhealthy"
	}
	code := http.StatusOK
	if !info.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"message":    "API is running",
		"model_info": info,
	})
}

func (s *Server) handleModelInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Engine().Info())
}

func (s *Server) handleReloadModel(w http.ResponseWriter, r *http.Request) {
	engine := s.svc.Engine()
	engine.Unload()
	if err := engine.Load(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("model reload failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Model reloaded successfully", "success": true})
}

func turnsFromDTO(dtos []turnDTO) []personachat.ConversationTurn {
	if len(dtos) == 0 {
		return nil
	}
	turns := make([]personachat.ConversationTurn, 0, len(dtos))
	for _, d := range dtos {
		turn := personachat.ConversationTurn{
			Role:    personachat.Role(d.Role),
			Content: d.Content,
		}
		if d.Timestamp != "" {
			if ts, err := time.Parse(time.RFC3339, d.Timestamp); err == nil {
				turn.Timestamp = ts
			}
		}
		turns = append(turns, turn)
	}
	return turns
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
