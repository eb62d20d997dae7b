// Package utils provides common utility functions.
package utils

import "net/http"

// UserAgent identifies the service to upstream APIs.
const UserAgent = "antifraud-articles/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// BuildHeaders creates JSON request headers with defaults. A non-empty bearer token is
// sent as the Authorization header.
func (h *HTTPHelper) BuildHeaders(bearer string, customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json; charset=utf-8")

	if bearer != "" {
		headers.Set("Authorization", "Bearer "+bearer)
	}

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
