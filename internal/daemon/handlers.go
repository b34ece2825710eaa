package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/pacer/internal/domain"
	"github.com/felixgeelhaar/pacer/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "running",
		"version": Version,
		"storage": s.backend,
		"queue":   s.queueConn != nil && s.queueConn.IsConnected(),
		"modules": len(s.registry.List()),
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"daemon":   s.cfg.Daemon,
		"adaptive": s.cfg.Adaptive,
		"storage":  s.cfg.Storage,
	})
}

// Catalog handlers

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	modules := s.registry.List()

	result := make([]map[string]interface{}, 0, len(modules))
	for _, m := range modules {
		result = append(result, map[string]interface{}{
			"id":                m.ID,
			"title":             m.Title,
			"skill_level":       m.SkillLevel,
			"complexity_factor": m.ComplexityFactor,
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"modules": result,
	})
}

func (s *Server) handleGetModule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	module, err := s.registry.Get(id)
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "module not found", nil)
		return
	}

	s.jsonResponse(w, http.StatusOK, module)
}

// Controller handlers

func (s *Server) handleRecordObservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string                        `json:"user_id"`
		ModuleID    string                        `json:"module_id"`
		Observation domain.PerformanceObservation `json:"observation"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.UserID == "" || req.ModuleID == "" {
		s.jsonError(w, http.StatusBadRequest, "user_id and module_id are required", nil)
		return
	}

	adj, err := s.controller.RecordObservation(r.Context(), req.UserID, req.ModuleID, req.Observation)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to record observation", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, adj)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		ModuleID string `json:"module_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.UserID == "" || req.ModuleID == "" {
		s.jsonError(w, http.StatusBadRequest, "user_id and module_id are required", nil)
		return
	}

	module, err := s.registry.Get(req.ModuleID)
	if err != nil {
		s.jsonError(w, http.StatusNotFound, "module not found", nil)
		return
	}

	difficulty, err := s.controller.PredictInitialDifficulty(r.Context(), req.UserID, req.ModuleID, module.SkillLevel)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "prediction failed", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"user_id":     req.UserID,
		"module_id":   req.ModuleID,
		"skill_level": module.SkillLevel,
		"difficulty":  difficulty,
	})
}

func (s *Server) handleGetDifficulty(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	moduleID := r.PathValue("module")

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"user_id":    userID,
		"module_id":  moduleID,
		"difficulty": s.controller.CurrentDifficulty(userID, moduleID),
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	moduleID := r.PathValue("module")

	history := s.controller.History(userID, moduleID)
	if history == nil {
		history = []*domain.DifficultyAdjustment{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"user_id":     userID,
		"module_id":   moduleID,
		"adjustments": history,
	})
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")

	model, err := s.controller.Model(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserModelNotFound) {
			s.jsonError(w, http.StatusNotFound, "user model not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to get user model", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, model)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.controller.Report(r.PathValue("user")))
}

// Attempt handlers

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		ModuleID string `json:"module_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.UserID == "" || req.ModuleID == "" {
		s.jsonError(w, http.StatusBadRequest, "user_id and module_id are required", nil)
		return
	}

	attempt, difficulty, err := s.attempts.Start(r.Context(), req.UserID, req.ModuleID)
	if err != nil {
		if errors.Is(err, domain.ErrModuleNotFound) {
			s.jsonError(w, http.StatusNotFound, "module not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to start attempt", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]interface{}{
		"attempt":    attempt,
		"difficulty": difficulty,
	})
}

func (s *Server) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := s.attempts.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.jsonError(w, http.StatusNotFound, "attempt not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to get attempt", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, attempt)
}

func (s *Server) handleAttemptRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Errors []string `json:"errors,omitempty"`
	}
	// An empty body means a clean run.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	attempt, err := s.attempts.RecordRun(r.Context(), r.PathValue("id"), req.Errors)
	if err != nil {
		s.attemptError(w, err, "failed to record run")
		return
	}

	s.jsonResponse(w, http.StatusOK, attempt)
}

func (s *Server) handleAttemptHint(w http.ResponseWriter, r *http.Request) {
	attempt, err := s.attempts.RecordHint(r.Context(), r.PathValue("id"))
	if err != nil {
		s.attemptError(w, err, "failed to record hint")
		return
	}

	s.jsonResponse(w, http.StatusOK, attempt)
}

func (s *Server) handleCompleteAttempt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score   float64 `json:"score"`
		Success bool    `json:"success"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	adj, err := s.attempts.Complete(r.Context(), r.PathValue("id"), req.Score, req.Success)
	if err != nil {
		s.attemptError(w, err, "failed to complete attempt")
		return
	}

	s.jsonResponse(w, http.StatusOK, adj)
}

func (s *Server) handleAbandonAttempt(w http.ResponseWriter, r *http.Request) {
	adj, err := s.attempts.Abandon(r.Context(), r.PathValue("id"))
	if err != nil {
		s.attemptError(w, err, "failed to abandon attempt")
		return
	}

	s.jsonResponse(w, http.StatusOK, adj)
}

// attemptError maps attempt service errors to HTTP statuses.
func (s *Server) attemptError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		s.jsonError(w, http.StatusNotFound, "attempt not found", nil)
	case errors.Is(err, session.ErrNotActive):
		s.jsonError(w, http.StatusConflict, "attempt is not active", nil)
	default:
		s.jsonError(w, http.StatusInternalServerError, message, err)
	}
}

// JSON helpers

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
