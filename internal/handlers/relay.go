package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/services"
	"aibuddy-backend/internal/webhook"
)

// RelayHandler forwards {query, uniqueId} to the relay webhook and passes
// the reply back untouched.
type RelayHandler struct {
	client          *webhook.Client
	endpoint        string
	defaultUniqueID string
	log             *logger.Logger
}

func NewRelayHandler(client *webhook.Client, endpoint, defaultUniqueID string, log *logger.Logger) *RelayHandler {
	return &RelayHandler{
		client:          client,
		endpoint:        endpoint,
		defaultUniqueID: defaultUniqueID,
		log:             log,
	}
}

func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req *models.WebhookQuery
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, &services.ParseError{Err: err})
		return
	}
	if req == nil {
		h.fail(w, r, &services.ParseError{Err: errors.New("request body must be a JSON object")})
		return
	}
	if req.UniqueID == "" {
		req.UniqueID = h.defaultUniqueID
	}

	resp, err := h.client.Do(r.Context(), h.endpoint, url.Values{
		"query":    {req.Query},
		"uniqueId": {req.UniqueID},
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// The upstream status is not propagated; the body is passed through as is.
	if json.Valid([]byte(resp.Body)) {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(resp.Body))
}

func (h *RelayHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithContext(r.Context()).Warn("relay request failed", zap.Error(err))
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
