package hopx

import (
	"github.com/hopx-ai/hopx-go/internal/apierrors"
)

// ErrorKind identifies which taxonomy entry an error belongs to. Every
// error returned by the SDK for a failed API call carries exactly one kind;
// callers can switch on it exhaustively instead of chaining type assertions.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	KindSandboxExpired     = apierrors.KindSandboxExpired
	KindTokenExpired       = apierrors.KindTokenExpired
	KindAuthentication     = apierrors.KindAuthentication
	KindRateLimit          = apierrors.KindRateLimit
	KindFileNotFound       = apierrors.KindFileNotFound
	KindOperation          = apierrors.KindOperation
	KindFeatureUnavailable = apierrors.KindFeatureUnavailable
	KindServer             = apierrors.KindServer
	KindAPI                = apierrors.KindAPI
	KindNetwork            = apierrors.KindNetwork
)

// HopxError is implemented by every SDK error.
type HopxError = apierrors.HopxError

// Typed errors. Use errors.As to inspect fields.
type (
	// SandboxExpiredError indicates the target sandbox's lifetime has ended.
	SandboxExpiredError = apierrors.SandboxExpiredError
	// TokenExpiredError indicates the agent access token expired.
	TokenExpiredError = apierrors.TokenExpiredError
	// AuthenticationError indicates the credential was rejected.
	AuthenticationError = apierrors.AuthenticationError
	// RateLimitError indicates the caller exceeded the API rate limit.
	RateLimitError = apierrors.RateLimitError
	// FileNotFoundError indicates a file operation targeted a missing path.
	FileNotFoundError = apierrors.FileNotFoundError
	// OperationError indicates an operation-specific failure.
	OperationError = apierrors.OperationError
	// FeatureUnavailableError indicates the capability is absent here.
	FeatureUnavailableError = apierrors.FeatureUnavailableError
	// ServerError indicates a remote 5xx that survived the retry budget.
	ServerError = apierrors.ServerError
	// APIError is the fallback for any other HTTP error.
	APIError = apierrors.APIError
	// NetworkError indicates the request produced no HTTP response.
	NetworkError = apierrors.NetworkError
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrSandboxExpired matches all sandbox-expiry errors.
	ErrSandboxExpired = apierrors.ErrSandboxExpired

	// ErrTokenExpired matches bearer-token expiry errors.
	ErrTokenExpired = apierrors.ErrTokenExpired

	// ErrAuthentication matches all credential rejections.
	ErrAuthentication = apierrors.ErrAuthentication

	// ErrRateLimited matches rate-limit errors.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrFileNotFound matches file-not-found errors.
	ErrFileNotFound = apierrors.ErrFileNotFound

	// ErrPermissionDenied matches permission-denied operation errors.
	ErrPermissionDenied = apierrors.ErrPermissionDenied

	// ErrFeatureUnavailable matches feature-unavailable errors.
	ErrFeatureUnavailable = apierrors.ErrFeatureUnavailable
)

// RequestID returns the server-side correlation ID carried by err, if any.
func RequestID(err error) string {
	return apierrors.RequestID(err)
}
