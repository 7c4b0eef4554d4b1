package forgeseal

import (
	"errors"
	"fmt"

	"github.com/forgeseal/client-go/internal/api"
	"github.com/forgeseal/client-go/internal/sealbox"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingToken is returned when no API token is provided.
	ErrMissingToken = errors.New("API token is required")

	// ErrUnauthorized is returned when the token is invalid, expired, or
	// revoked.
	ErrUnauthorized = errors.New("invalid or expired token")

	// ErrRepoNotFound is returned when a repository does not exist or the
	// token cannot see it.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrSecretNotFound is returned when a secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrWorkflowNotFound is returned when a workflow file is not present
	// in a repository.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrFileNotFound is returned when a contents lookup misses, either
	// because the file or its repository does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrRateLimited is returned when the forge rate limit is exceeded
	// after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrValidation is returned when the forge rejects a request payload.
	ErrValidation = errors.New("request rejected by server validation")

	// ErrForkTimeout is returned when a fork does not become ready within
	// the wait deadline.
	ErrForkTimeout = errors.New("timed out waiting for fork to become ready")
)

// Sealing errors. These are the same values the encryption core returns,
// so errors.Is works whether a failure surfaces from SealSecret directly
// or wrapped inside a SealError from SetSecret.
var (
	// ErrInitialization: the cryptographic subsystem is unavailable.
	// Fatal to the process; nothing can be sealed.
	ErrInitialization = sealbox.ErrInitialization

	// ErrInvalidArgument: a required sealing input was absent.
	ErrInvalidArgument = sealbox.ErrInvalidArgument

	// ErrPublicKeyDecode: the public key text did not decode to a valid
	// key. With keys fetched from the forge this means bad data from the
	// server; surface it to the operator rather than retrying.
	ErrPublicKeyDecode = sealbox.ErrPublicKeyDecode

	// ErrEncryption: the seal operation itself failed. Indicates an
	// unhealthy subsystem, not bad input; do not retry with the same
	// inputs.
	ErrEncryption = sealbox.ErrEncryption

	// ErrBufferTooSmall: the caller-supplied output buffer cannot hold
	// the encoded ciphertext. Retry with the capacity reported by
	// BufferTooSmallError.
	ErrBufferTooSmall = sealbox.ErrBufferTooSmall

	// ErrEncoding: transport encoding failed after a successful seal.
	// Defensive; treat like ErrEncryption.
	ErrEncoding = sealbox.ErrEncoding
)

// BufferTooSmallError reports the exact output capacity a retry of
// SealSecretToBuffer needs. It matches ErrBufferTooSmall under errors.Is.
type BufferTooSmallError struct {
	Required int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("output buffer too small: %d bytes required", e.Required)
}

// Is implements errors.Is for sentinel error matching.
func (e *BufferTooSmallError) Is(target error) bool {
	return target == ErrBufferTooSmall
}

// APIError represents an HTTP error response from the forge API.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
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
	case 422:
		return target == ErrValidation
	case 429:
		return target == ErrRateLimited
	}
	return false
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

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SealError reports a failure to seal a secret value for a repository.
// The secret name is carried for diagnostics; the value never is.
type SealError struct {
	Repo   string
	Secret string
	Err    error
}

func (e *SealError) Error() string {
	return fmt.Sprintf("seal secret %s for %s: %v", e.Secret, e.Repo, e.Err)
}

// Unwrap returns the underlying error.
func (e *SealError) Unwrap() error {
	return e.Err
}

// wrapError converts internal API errors to public errors so that
// errors.Is() checks work with this package's sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		wrapped := &APIError{
			StatusCode:       apiErr.StatusCode,
			Message:          apiErr.Message,
			DocumentationURL: apiErr.DocumentationURL,
		}
		// 403 rate limits and resource-typed 404s need the internal
		// error's context to map correctly.
		if errors.Is(err, api.ErrRateLimited) {
			return &rateLimitedAPIError{*wrapped}
		}
		if apiErr.StatusCode == 404 {
			switch apiErr.ResourceType {
			case api.ResourceRepo:
				return &notFoundAPIError{*wrapped, ErrRepoNotFound}
			case api.ResourceSecret:
				return &notFoundAPIError{*wrapped, ErrSecretNotFound}
			case api.ResourceWorkflow:
				return &notFoundAPIError{*wrapped, ErrWorkflowNotFound}
			case api.ResourceContent:
				return &notFoundAPIError{*wrapped, ErrFileNotFound}
			}
			// Endpoints that carry no resource type, like billing,
			// surface a plain 404 rather than guessing a sentinel.
			return wrapped
		}
		return wrapped
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}

// isNotFound reports whether err is any of the resource not-found errors.
func isNotFound(err error) bool {
	return errors.Is(err, ErrRepoNotFound) ||
		errors.Is(err, ErrSecretNotFound) ||
		errors.Is(err, ErrWorkflowNotFound) ||
		errors.Is(err, ErrFileNotFound)
}

// rateLimitedAPIError is an APIError that additionally matches
// ErrRateLimited, for 403-based secondary rate limits.
type rateLimitedAPIError struct {
	APIError
}

func (e *rateLimitedAPIError) Is(target error) bool {
	return target == ErrRateLimited || e.APIError.Is(target)
}

// notFoundAPIError is an APIError that matches the resource-specific
// not-found sentinel recorded by the transport layer.
type notFoundAPIError struct {
	APIError
	sentinel error
}

func (e *notFoundAPIError) Is(target error) bool {
	return target == e.sentinel || e.APIError.Is(target)
}
