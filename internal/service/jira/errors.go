package jira

import (
	"errors"
	"fmt"
	"strings"
)

// APIError represents a non-2xx response from the Jira REST API.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int
	// Status is the status text, e.g. "404 Not Found".
	Status string
	// Body is the raw response body.
	Body string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("Jira API error: %s", e.Status)
	}
	return fmt.Sprintf("Jira API error: %s: %s", e.Status, body)
}

// TransportError wraps a network-level failure reaching Jira.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to Jira failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a Jira 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
