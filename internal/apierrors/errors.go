// Package apierrors provides the shared error taxonomy for the Hopx client.
//
// Every terminal API failure is translated into exactly one of the types
// below. Each type carries a Kind discriminator so callers can switch
// exhaustively, and implements Is so errors.Is works against the exported
// sentinels.
package apierrors

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies which taxonomy entry an error belongs to.
type Kind string

const (
	// KindSandboxExpired means the target sandbox's lifetime has ended.
	KindSandboxExpired Kind = "sandbox_expired"
	// KindTokenExpired means the bearer token expired and must be refreshed.
	KindTokenExpired Kind = "token_expired"
	// KindAuthentication means the credential was rejected for any other reason.
	KindAuthentication Kind = "authentication"
	// KindRateLimit means the caller must slow down.
	KindRateLimit Kind = "rate_limit"
	// KindFileNotFound means a file operation targeted a missing path.
	KindFileNotFound Kind = "file_not_found"
	// KindOperation means an operation-specific failure, including permission denials.
	KindOperation Kind = "operation"
	// KindFeatureUnavailable means the capability is not present in this environment.
	KindFeatureUnavailable Kind = "feature_unavailable"
	// KindServer means a remote 5xx after the retry budget was spent.
	KindServer Kind = "server"
	// KindAPI is the fallback for any other HTTP error.
	KindAPI Kind = "api"
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork Kind = "network"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrSandboxExpired matches all sandbox-expiry errors.
	ErrSandboxExpired = errors.New("sandbox has expired")

	// ErrTokenExpired matches bearer-token expiry errors.
	ErrTokenExpired = errors.New("access token has expired")

	// ErrAuthentication matches all credential rejections, including token expiry.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRateLimited matches rate-limit errors.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrFileNotFound matches file-not-found errors.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied matches permission-denied operation errors.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFeatureUnavailable matches feature-unavailable errors.
	ErrFeatureUnavailable = errors.New("feature not available")
)

// HopxError is implemented by every error in the taxonomy.
type HopxError interface {
	error
	Kind() Kind
}

// SandboxExpiredError indicates the target sandbox's lifetime has ended.
// It carries whatever identifying metadata the server supplied.
type SandboxExpiredError struct {
	SandboxID  string
	LastStatus string
	StartedAt  time.Time
	EndedAt    time.Time
	RequestID  string
	Message    string
}

func (e *SandboxExpiredError) Error() string {
	if e.SandboxID != "" {
		return fmt.Sprintf("sandbox %s has expired: %s", e.SandboxID, e.Message)
	}
	return fmt.Sprintf("sandbox has expired: %s", e.Message)
}

// Kind implements HopxError.
func (e *SandboxExpiredError) Kind() Kind { return KindSandboxExpired }

// Is implements errors.Is for sentinel error matching.
func (e *SandboxExpiredError) Is(target error) bool {
	return target == ErrSandboxExpired
}

// TokenExpiredError indicates the bearer token expired. It is distinct from
// AuthenticationError so callers can re-authenticate instead of failing hard.
type TokenExpiredError struct {
	Message   string
	RequestID string
}

func (e *TokenExpiredError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("access token expired: %s", e.Message)
	}
	return "access token expired"
}

// Kind implements HopxError.
func (e *TokenExpiredError) Kind() Kind { return KindTokenExpired }

// Is implements errors.Is for sentinel error matching.
// Token expiry also matches ErrAuthentication since it is a credential rejection.
func (e *TokenExpiredError) Is(target error) bool {
	return target == ErrTokenExpired || target == ErrAuthentication
}

// AuthenticationError indicates the credential was rejected.
type AuthenticationError struct {
	Message   string
	RequestID string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication failed: %s", e.Message)
	}
	return "authentication failed"
}

// Kind implements HopxError.
func (e *AuthenticationError) Kind() Kind { return KindAuthentication }

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// RateLimitError indicates the caller exceeded the API rate limit.
type RateLimitError struct {
	Message    string
	RequestID  string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded, retry after %v", e.RetryAfter)
	}
	if e.Message != "" {
		return fmt.Sprintf("rate limit exceeded: %s", e.Message)
	}
	return "rate limit exceeded"
}

// Kind implements HopxError.
func (e *RateLimitError) Kind() Kind { return KindRateLimit }

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// FileNotFoundError indicates a file operation targeted a missing path.
type FileNotFoundError struct {
	Path      string
	Message   string
	RequestID string
}

func (e *FileNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("file not found: %s", e.Path)
	}
	return "file not found"
}

// Kind implements HopxError.
func (e *FileNotFoundError) Kind() Kind { return KindFileNotFound }

// Is implements errors.Is for sentinel error matching.
func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// OperationError indicates an operation-specific failure reported by the
// agent, such as a write to a read-only path. PermissionDenied is set when
// the failure was an access control rejection.
type OperationError struct {
	Path             string
	Message          string
	RequestID        string
	PermissionDenied bool
}

func (e *OperationError) Error() string {
	verb := "operation failed"
	if e.PermissionDenied {
		verb = "permission denied"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", verb, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", verb, e.Message)
}

// Kind implements HopxError.
func (e *OperationError) Kind() Kind { return KindOperation }

// Is implements errors.Is for sentinel error matching.
func (e *OperationError) Is(target error) bool {
	return e.PermissionDenied && target == ErrPermissionDenied
}

// FeatureUnavailableError indicates the requested capability is not present
// in this environment, for example desktop automation on a headless template.
type FeatureUnavailableError struct {
	Feature   string
	Message   string
	RequestID string
}

func (e *FeatureUnavailableError) Error() string {
	if e.Feature != "" {
		return fmt.Sprintf("feature not available: %s", e.Feature)
	}
	if e.Message != "" {
		return fmt.Sprintf("feature not available: %s", e.Message)
	}
	return "feature not available"
}

// Kind implements HopxError.
func (e *FeatureUnavailableError) Kind() Kind { return KindFeatureUnavailable }

// Is implements errors.Is for sentinel error matching.
func (e *FeatureUnavailableError) Is(target error) bool {
	return target == ErrFeatureUnavailable
}

// ServerError indicates a remote 5xx that survived the retry budget.
type ServerError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// Kind implements HopxError.
func (e *ServerError) Kind() Kind { return KindServer }

// APIError is the fallback for any HTTP error that matched no other entry.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Kind implements HopxError.
func (e *APIError) Kind() Kind { return KindAPI }

// NetworkError represents a failure that produced no HTTP response,
// including timeouts and cancelled contexts.
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

// Kind implements HopxError.
func (e *NetworkError) Kind() Kind { return KindNetwork }

// RequestID returns the request correlation ID carried by err, if any.
func RequestID(err error) string {
	switch e := err.(type) {
	case *SandboxExpiredError:
		return e.RequestID
	case *TokenExpiredError:
		return e.RequestID
	case *AuthenticationError:
		return e.RequestID
	case *RateLimitError:
		return e.RequestID
	case *FileNotFoundError:
		return e.RequestID
	case *OperationError:
		return e.RequestID
	case *FeatureUnavailableError:
		return e.RequestID
	case *ServerError:
		return e.RequestID
	case *APIError:
		return e.RequestID
	}
	return ""
}
