package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/services"
	"aibuddy-backend/internal/webhook"
)

const registrationSuccessMessage = "Registration submitted successfully"

type RegistrationHandler struct {
	service *services.RegistrationService
	log     *logger.Logger
}

func NewRegistrationHandler(service *services.RegistrationService, log *logger.Logger) *RegistrationHandler {
	return &RegistrationHandler{service: service, log: log}
}

// Register validates the submitted form and forwards it to the webhook.
// The form is echoed back: cleared on success, retained on failure.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	form := services.NewRegistrationForm(h.service)
	form.Fill(req)

	err := form.Submit(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, models.RegistrationResponse{
			Message:         registrationSuccessMessage,
			WebhookResponse: form.Response(),
			Form:            form.Input(),
		})
		return
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		handleServiceError(w, r, err)
		return
	}

	h.log.WithContext(r.Context()).Warn("registration webhook failed", zap.Error(err))

	status, apiErr := serviceError(r, err)
	resp := models.RegistrationErrorResponse{Error: apiErr, Form: form.Input()}
	var upstreamErr *webhook.UpstreamError
	if errors.As(err, &upstreamErr) {
		resp.WebhookResponse = form.Response()
	}
	writeJSON(w, status, resp)
}

// Options lists the selectable class grades and languages.
func (h *RegistrationHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.RegistrationOptions{
		ClassGrades: models.ClassGrades,
		Languages:   models.Languages,
	})
}
