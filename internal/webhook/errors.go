package webhook

import "fmt"

// TransportError means the webhook could not be reached or read.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webhook request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx reply from the webhook.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.StatusCode)
}
