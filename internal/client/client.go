// Package client talks to the dispatch API on behalf of the dashboard.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outbound-caller/internal/calls"
	"outbound-caller/internal/dispatch"

	"github.com/bytedance/sonic"
)

// ErrUnreachable wraps transport failures: the request never got an HTTP answer.
var ErrUnreachable = errors.New("client: call service unreachable")

// ConnectivityMessage is shown to the user instead of transport details.
const ConnectivityMessage = "Unable to reach the call service. Check your connection and try again."

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: call service answered %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// CreateCall submits req to POST /api/calls. The decoded result is returned
// for every answer that carries a JSON body, together with a *StatusError
// when the status is not 2xx.
func (c *Client) CreateCall(ctx context.Context, req calls.CallRequest) (dispatch.Result, error) {
	var res dispatch.Result
	status, err := c.postJSON(ctx, "/api/calls", req, &res)
	if err != nil {
		return dispatch.Result{}, err
	}
	if status < 200 || status > 299 {
		res.Success = false
		return res, &StatusError{Status: status, Message: res.Message}
	}
	return res, nil
}

type previewResponse struct {
	Script string `json:"script"`
}

// Preview asks the API to render the preview script for req. Used by
// "dialer preview --remote".
func (c *Client) Preview(ctx context.Context, req calls.CallRequest) (string, error) {
	var res previewResponse
	status, err := c.postJSON(ctx, "/api/preview", req, &res)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", &StatusError{Status: status, Message: http.StatusText(status)}
	}
	return res.Script, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) (int, error) {
	body, err := sonic.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("client: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return 0, fmt.Errorf("client: unexpected %d response from %s: %w", resp.StatusCode, path, err)
	}
	return resp.StatusCode, nil
}
