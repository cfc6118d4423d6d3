package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lionsys/fittrack/internal/stats"
	"github.com/lionsys/fittrack/internal/store"
)

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := s.logs.List(r.Context())
	if err != nil {
		s.logger.Error("list logs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	if entries == nil {
		entries = []store.LogEntry{}
	}
	respond(w, http.StatusOK, entries)
}

func (s *Server) createLog(w http.ResponseWriter, r *http.Request) {
	var entry store.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.logs.Create(r.Context(), entry)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrValidation), errors.Is(err, store.ErrDuplicateID):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("create log failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to save log")
		}
		return
	}
	respond(w, http.StatusCreated, created)
}

func (s *Server) deleteLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.logs.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete log failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete log")
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "Log deleted successfully"})
}

func (s *Server) statsToday(w http.ResponseWriter, r *http.Request) {
	entries, err := s.logs.List(r.Context())
	if err != nil {
		s.logger.Error("list logs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	today := s.now().Format(store.DayFormat)
	respond(w, http.StatusOK, stats.DailySummary(entries, today))
}

func (s *Server) statsTrend(w http.ResponseWriter, r *http.Request) {
	entries, err := s.logs.List(r.Context())
	if err != nil {
		s.logger.Error("list logs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	respond(w, http.StatusOK, stats.Trend(entries))
}
