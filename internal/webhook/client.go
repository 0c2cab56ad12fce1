package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Bodies larger than this are rejected with ErrResponseTooLarge.
const maxBodyBytes = 4 << 20

var ErrResponseTooLarge = errors.New("response too large")

// Client issues GET requests with query parameters against fixed webhook endpoints.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Response is the raw upstream reply.
type Response struct {
	StatusCode  int
	ContentType string
	Body        string
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do performs the GET and returns the response whatever its status.
// Only transport failures are returned as errors.
func (c *Client) Do(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	target, err := buildURL(endpoint, params)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return nil, &TransportError{Endpoint: endpoint, Err: ErrResponseTooLarge}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}

// GetText performs the GET and returns the body of a 2xx response.
// Non-2xx responses become an *UpstreamError carrying the body.
func (c *Client) GetText(ctx context.Context, endpoint string, params url.Values) (string, error) {
	resp, err := c.Do(ctx, endpoint, params)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return resp.Body, nil
}

func buildURL(endpoint string, params url.Values) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid webhook URL: %w", err)
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
