package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"signedsubmit/internal/engine/signing"
	apperrors "signedsubmit/internal/pkg/errors"
)

const (
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
)

// Submitter posts a signed body and returns the decoded reply.
type Submitter interface {
	Submit(ctx context.Context, body []byte, signature string) (*Response, error)
}

type Response struct {
	StatusCode int
	Body       map[string]interface{}
	Raw        []byte
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit sends body exactly as given with the signature header value.
func (c *Client) Submit(ctx context.Context, body []byte, signature string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &apperrors.TransportError{Endpoint: c.endpoint, Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signing.HeaderName, signature)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.TransportError{Endpoint: c.endpoint, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &apperrors.TransportError{Endpoint: c.endpoint, Cause: fmt.Errorf("read response: %w", err)}
	}

	log.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(raw)).
		Msg("response received")

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &apperrors.ResponseFormatError{StatusCode: resp.StatusCode, Body: string(raw), Cause: err}
	}
	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, &apperrors.ResponseFormatError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Cause:      fmt.Errorf("expected a JSON object, got %T", decoded),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: obj, Raw: raw}, nil
}
