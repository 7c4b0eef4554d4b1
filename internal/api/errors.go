package api

import (
	"errors"
	"fmt"
	"strings"
)

// Common API errors that can be checked with errors.Is.
var (
	// ErrUnauthorized indicates the token is invalid, expired, or revoked.
	ErrUnauthorized = errors.New("invalid or expired token")
	// ErrNotFound indicates the requested resource does not exist (or the
	// token cannot see it; the forge does not distinguish).
	ErrNotFound = errors.New("resource not found")
	// ErrRateLimited indicates a primary or secondary rate limit was hit.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrValidation indicates the forge rejected the request payload.
	ErrValidation = errors.New("request rejected by server validation")
)

// ResourceType indicates which type of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown ResourceType = ""
	// ResourceRepo indicates the error relates to a repository.
	ResourceRepo ResourceType = "repository"
	// ResourceSecret indicates the error relates to an Actions secret.
	ResourceSecret ResourceType = "secret"
	// ResourceWorkflow indicates the error relates to a workflow.
	ResourceWorkflow ResourceType = "workflow"
	// ResourceContent indicates the error relates to a repository file.
	ResourceContent ResourceType = "content"
)

// APIError represents an HTTP error response from the forge API.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
	ResourceType     ResourceType
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 403:
		// The forge reports rate limiting as 403 as well as 429.
		if target == ErrRateLimited {
			return strings.Contains(strings.ToLower(e.Message), "rate limit")
		}
		return false
	case 404:
		return target == ErrNotFound
	case 422:
		return target == ErrValidation
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// WithResourceType returns a copy of the error with the resource type set,
// so callers can distinguish which lookup failed on shared status codes.
// If the error is not an *APIError, it is returned unchanged.
func WithResourceType(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:       apiErr.StatusCode,
			Message:          apiErr.Message,
			DocumentationURL: apiErr.DocumentationURL,
			ResourceType:     rt,
		}
	}
	return err
}

// NetworkError represents a network-level failure after retries.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
