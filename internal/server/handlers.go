package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ResolveRequest represents the request body for /resolve-taste.
type ResolveRequest struct {
	Input string `json:"input" validate:"required"`
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// handleResolveTaste runs the full resolution pipeline for one input.
// Only a missing or empty input is a client error; everything downstream
// degrades to synthetic data and still answers 200.
func (s *Server) handleResolveTaste(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req.Input = strings.TrimSpace(req.Input)
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Field 'input' is required")
		return
	}

	resp, err := s.pipeline.Resolve(r.Context(), req.Input)
	if err != nil {
		// Only context cancellation reaches here.
		log.WithField("request_id", requestIDFrom(r.Context())).
			WithError(err).Warn("resolution aborted")
		s.errorResponse(w, http.StatusServiceUnavailable, "Request cancelled")
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
