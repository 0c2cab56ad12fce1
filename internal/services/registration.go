package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"aibuddy-backend/internal/models"
	"aibuddy-backend/internal/validation"
	"aibuddy-backend/internal/webhook"
)

// Same shape as JavaScript's Date.toISOString, which the webhook workflow expects.
const timestampLayout = "2006-01-02T15:04:05.000Z"

type RegistrationService struct {
	client   *webhook.Client
	endpoint string
	now      func() time.Time
}

func NewRegistrationService(client *webhook.Client, endpoint string) *RegistrationService {
	return &RegistrationService{
		client:   client,
		endpoint: endpoint,
		now:      time.Now,
	}
}

// Submit validates the input and forwards it to the registration webhook.
// It returns the raw response text of a 2xx reply.
func (s *RegistrationService) Submit(ctx context.Context, in models.RegistrationInput) (string, error) {
	if fields := validation.ValidateRegistration(in); len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}
	return s.client.GetText(ctx, s.endpoint, s.params(in))
}

func (s *RegistrationService) params(in models.RegistrationInput) url.Values {
	return url.Values{
		models.FieldFullName:     {in.FullName},
		models.FieldGuardianName: {in.GuardianName},
		models.FieldClassGrade:   {in.ClassGrade},
		models.FieldLanguage:     {in.Language},
		models.FieldLocation:     {in.Location},
		models.FieldEmail:        {in.Email},
		models.FieldPassword:     {in.Password},
		"timestamp":              {s.now().UTC().Format(timestampLayout)},
	}
}

// RegistrationForm holds one form session: the field values, their inline
// errors, the last webhook response and the in-flight flag.
type RegistrationForm struct {
	service *RegistrationService

	mu         sync.Mutex
	input      models.RegistrationInput
	errors     map[string]string
	response   string
	submitting bool
}

func NewRegistrationForm(service *RegistrationService) *RegistrationForm {
	return &RegistrationForm{
		service: service,
		errors:  make(map[string]string),
	}
}

// Set updates one field. Any error shown for that field is cleared right
// away; the value is only re-checked on the next Submit.
func (f *RegistrationForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := fieldRef(&f.input, field)
	if target == nil {
		return fmt.Errorf("unknown registration field %q", field)
	}
	*target = value
	delete(f.errors, field)
	return nil
}

// Fill sets every field from in.
func (f *RegistrationForm) Fill(in models.RegistrationInput) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.input = in
	f.errors = make(map[string]string)
}

func (f *RegistrationForm) Input() models.RegistrationInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *RegistrationForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Response is the text of the last webhook reply, prefixed with "Error: "
// when the webhook rejected the registration.
func (f *RegistrationForm) Response() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.response
}

func (f *RegistrationForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submit validates and sends the form. On success every field is reset;
// on any failure the values are kept for correction.
func (f *RegistrationForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	if fields := validation.ValidateRegistration(f.input); len(fields) > 0 {
		f.errors = fields
		f.mu.Unlock()
		return &ValidationError{Fields: fields}
	}
	f.errors = make(map[string]string)
	f.submitting = true
	in := f.input
	f.mu.Unlock()

	text, err := f.service.Submit(ctx, in)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		var upstreamErr *webhook.UpstreamError
		if errors.As(err, &upstreamErr) {
			f.response = "Error: " + upstreamErr.Body
		}
		return err
	}

	f.response = text
	f.input = models.RegistrationInput{}
	return nil
}

func fieldRef(in *models.RegistrationInput, field string) *string {
	switch field {
	case models.FieldFullName:
		return &in.FullName
	case models.FieldGuardianName:
		return &in.GuardianName
	case models.FieldClassGrade:
		return &in.ClassGrade
	case models.FieldLanguage:
		return &in.Language
	case models.FieldLocation:
		return &in.Location
	case models.FieldEmail:
		return &in.Email
	case models.FieldPassword:
		return &in.Password
	case models.FieldConfirmPassword:
		return &in.ConfirmPassword
	}
	return nil
}
