package api

import "fmt"

// ValidationError reports bad or missing input, either caught locally
// before a request is issued or returned by the API (HTTP 400/422).
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NoSelectionError means an operation needed a selected user and none was set.
type NoSelectionError struct{}

func (NoSelectionError) Error() string { return "no user selected" }

// NetworkError means the request never reached the API.
type NetworkError struct {
	URL string
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// NotFoundError means a referenced id no longer exists server-side.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e NotFoundError) Error() string {
	if e.Kind == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

// SyncError means the API was reachable but a mutation was rejected, and
// any optimistic local change has been rolled back.
type SyncError struct {
	Op  string
	Err error
}

func (e SyncError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }

func (e SyncError) Unwrap() error { return e.Err }
