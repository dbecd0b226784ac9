package api

import "fmt"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s: unexpected status %d", e.Endpoint, e.Code)
}

// BackendError is the backend's own failure shape: {"error": "..."} with a 200.
type BackendError struct {
	Endpoint string
	Message  string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("api: %s: backend error: %s", e.Endpoint, e.Message)
}
