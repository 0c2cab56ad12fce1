package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/services"
	"aibuddy-backend/internal/webhook"
)

// Request bodies are small JSON objects; anything larger is rejected.
const maxRequestBytes = 64 << 10

var errTrailingData = errors.New("request body must contain a single JSON value")

// decodeJSON reads exactly one JSON value from a size-capped body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func apiError(code, message string, fields map[string]string, r *http.Request) models.APIError {
	return models.APIError{
		Code:      code,
		Message:   message,
		Fields:    fields,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{Error: apiError(code, message, nil, r)}
}

// serviceError maps an error to its HTTP status and API error body.
func serviceError(r *http.Request, err error) (int, models.APIError) {
	var (
		validationErr   *services.ValidationError
		conflictErr     *services.ConflictError
		notFoundErr     *services.NotFoundError
		unauthorizedErr *services.UnauthorizedError
		upstreamErr     *webhook.UpstreamError
		transportErr    *webhook.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, apiError("VALIDATION_ERROR", "Validation failed", validationErr.Fields, r)
	case errors.As(err, &conflictErr):
		return http.StatusConflict, apiError("CONFLICT", conflictErr.Message, nil, r)
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, apiError("NOT_FOUND", notFoundErr.Message, nil, r)
	case errors.As(err, &unauthorizedErr):
		return http.StatusUnauthorized, apiError("UNAUTHORIZED", unauthorizedErr.Message, nil, r)
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, apiError("UPSTREAM_ERROR", upstreamErr.Error(), nil, r)
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, apiError("TRANSPORT_ERROR", "Could not reach the webhook", nil, r)
	default:
		return http.StatusInternalServerError, apiError("INTERNAL_ERROR", "An unexpected error occurred", nil, r)
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := serviceError(r, err)
	writeJSON(w, status, models.ErrorResponse{Error: apiErr})
}
