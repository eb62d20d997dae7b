// Package feishu reads records from a Feishu bitable through the open platform API.
package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"antifraud/pkg/utils"
)

const (
	tokenPath = "/open-apis/auth/v3/tenant_access_token/internal"

	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 10 * 1024 * 1024
)

// envelope is the common shape of every open platform response.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
	Code int             `json:"code"`
}

// NewHTTPClient returns an http.Client with the given timeout, or DefaultTimeout when zero.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
	}
}

// doJSON sends a request and returns the raw body. A non-2xx status is an error
// carrying the status and, when the body can be parsed, the api code.
func doJSON(ctx context.Context, client *http.Client, method, url, bearer string, body any) ([]byte, int, error) {
	var reader io.Reader = http.NoBody

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.NewHTTPHelper().BuildHeaders(bearer, nil)

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return data, resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	return data, resp.StatusCode, nil
}

// decodeEnvelope parses the common response wrapper. A body that is not JSON yields a
// zero envelope and the parse error.
func decodeEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return env, nil
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + strings.Join(parts, "")
}
