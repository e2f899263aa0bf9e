package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const verifyEndpoint = "/verify"

type wireResponse struct {
	Success   bool            `json:"success"`
	Verified  bool            `json:"verified"`
	ReceiptID string          `json:"receiptId"`
	Errors    []string        `json:"errors,omitempty"`
	Rules     map[string]bool `json:"rules,omitempty"`
}

// HTTPClient talks to the external bond-minting verifier over HTTP. The
// caller-supplied timeout doubles as the orchestrator's phase deadline: a
// timeout is reported as ErrUnreachable, never as a rejection.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient builds a verifier client for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return &HTTPClient{client: client}
}

// Verify posts the request and maps the wire response to an Outcome.
func (c *HTTPClient) Verify(ctx context.Context, req Request) (Outcome, error) {
	var body wireResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post(verifyEndpoint)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.IsError() {
		return Outcome{}, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode())
	}
	if !body.Success {
		return Outcome{}, fmt.Errorf("%w: verifier reported failure", ErrUnreachable)
	}

	return Outcome{
		Verified:       body.Verified,
		ReceiptID:      body.ReceiptID,
		Errors:         body.Errors,
		RulesEvaluated: body.Rules,
	}, nil
}
