package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/homeserve-ai/supportbot/internal/dispatch"
	"github.com/homeserve-ai/supportbot/internal/observability"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	RequestID string `json:"request_id"`
	Reply     string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(dispatcher *dispatch.Dispatcher, logger *observability.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/chat", func(w http.ResponseWriter, req *http.Request) {
		var in chatRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if strings.TrimSpace(in.Message) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message must not be empty"})
			return
		}

		requestID := uuid.NewString()
		start := time.Now()
		reply := dispatcher.ProcessQuery(req.Context(), in.Message)
		logger.Info().
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("Chat request served")

		writeJSON(w, http.StatusOK, chatResponse{RequestID: requestID, Reply: reply})
	})

	r.Post("/admin/cache/clear", func(w http.ResponseWriter, req *http.Request) {
		if err := dispatcher.ClearCaches(req.Context()); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
