package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lionsys/fittrack/internal/coach"
	"github.com/lionsys/fittrack/internal/gemini"
	"github.com/lionsys/fittrack/internal/store"
)

type analyzeRequest struct {
	Prompt string `json:"prompt"`
}

// analyzeFood forwards a caller-built prompt straight to the model and
// returns the cleaned text. Older clients drive their own parsing on top
// of this.
func (s *Server) analyzeFood(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := s.gateway.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"response": text})
}

type chatRequest struct {
	Message string       `json:"message"`
	History []coach.Turn `json:"history"`
}

type chatResponse struct {
	Reply  string `json:"reply"`
	Logged bool   `json:"logged"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, logged := s.pipeline.Chat(r.Context(), req.Message, req.History)
	respond(w, http.StatusOK, chatResponse{Reply: reply, Logged: logged})
}

type logFoodRequest struct {
	Text string `json:"text"`
}

func (s *Server) logFood(w http.ResponseWriter, r *http.Request) {
	var req logFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	entry, err := s.pipeline.LogFood(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, gemini.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, "server busy, try later")
		case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrDuplicateID):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("log food failed", "error", err)
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respond(w, http.StatusCreated, entry)
}

func (s *Server) writeGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, gemini.ErrRateLimited) {
		respondError(w, http.StatusTooManyRequests, "server busy, try later")
		return
	}
	s.logger.Error("model call failed", "error", err)
	// Upstream message is forwarded for diagnostics.
	respondError(w, http.StatusInternalServerError, err.Error())
}
