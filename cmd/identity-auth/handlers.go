package main

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ismailkantarci/taxipartner-sub002/core"
)

// meResponse is the body of GET /api/me. The JWT context is never included.
type meResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *core.User      `json:"user,omitempty"`
	Principal     *core.Principal `json:"principal,omitempty"`
}

func handleGetMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		response := meResponse{
			User:      core.UserFromContext(ctx),
			Principal: core.PrincipalFromContext(ctx),
		}
		response.Authenticated = response.User != nil

		writeJSON(w, http.StatusOK, response)
	})
}

func handleHealthCheck() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func maxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// the status line is already written; only the log can record this
		log.Info().Err(err).Msg("failed to write response")
	}
}
