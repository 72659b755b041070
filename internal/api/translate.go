package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hopx-ai/hopx-go/internal/apierrors"
)

// Structured error codes the API may put in a response body.
const (
	codeSandboxExpired     = "SANDBOX_EXPIRED"
	codeTokenExpired       = "TOKEN_EXPIRED"
	codeFileNotFound       = "FILE_NOT_FOUND"
	codeOperationFailed    = "OPERATION_FAILED"
	codePermissionDenied   = "PERMISSION_DENIED"
	codeFeatureUnavailable = "FEATURE_UNAVAILABLE"
)

// errorBody is the structured error shape the API returns. All fields are
// optional; plain-text bodies are tolerated.
type errorBody struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	Code       string `json:"code"`
	RequestID  string `json:"request_id"`
	Path       string `json:"path"`
	Feature    string `json:"feature"`
	SandboxID  string `json:"sandbox_id"`
	LastStatus string `json:"last_status"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at"`
}

func (b *errorBody) message() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// Translate converts a terminal HTTP failure into exactly one error from the
// taxonomy in package apierrors. It is a pure function of its inputs: the
// same (status, body, header) always yields the same error kind and fields.
//
// Matching precedence, first match wins:
//
//  1. sandbox expired: 410, code SANDBOX_EXPIRED, or a 404 naming a sandbox
//  2. token expired on a 401
//  3. any remaining 401
//  4. 429
//  5. file not found: 404/403 with a path-scoped not-found signal
//  6. code OPERATION_FAILED or PERMISSION_DENIED
//  7. code FEATURE_UNAVAILABLE or 501
//  8. any remaining 5xx
//  9. fallback API error
func Translate(statusCode int, body []byte, header http.Header) error {
	var parsed errorBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err != nil {
			parsed = errorBody{Message: strings.TrimSpace(string(body))}
		}
	}

	requestID := parsed.RequestID
	if requestID == "" && header != nil {
		requestID = header.Get("X-Request-Id")
	}

	msg := parsed.message()
	msgLower := strings.ToLower(msg)

	switch {
	case statusCode == http.StatusGone,
		parsed.Code == codeSandboxExpired,
		statusCode == http.StatusNotFound && strings.Contains(msgLower, "sandbox"):
		return &apierrors.SandboxExpiredError{
			SandboxID:  parsed.SandboxID,
			LastStatus: parsed.LastStatus,
			StartedAt:  parseTime(parsed.StartedAt),
			EndedAt:    parseTime(parsed.EndedAt),
			RequestID:  requestID,
			Message:    msg,
		}

	case statusCode == http.StatusUnauthorized &&
		(parsed.Code == codeTokenExpired || strings.Contains(msgLower, "token expired")):
		return &apierrors.TokenExpiredError{Message: msg, RequestID: requestID}

	case statusCode == http.StatusUnauthorized:
		return &apierrors.AuthenticationError{Message: msg, RequestID: requestID}

	case statusCode == http.StatusTooManyRequests:
		return &apierrors.RateLimitError{
			Message:    msg,
			RequestID:  requestID,
			RetryAfter: parseRetryAfter(header),
		}

	case (statusCode == http.StatusNotFound || statusCode == http.StatusForbidden) &&
		(parsed.Code == codeFileNotFound || (parsed.Path != "" && strings.Contains(msgLower, "not found"))):
		return &apierrors.FileNotFoundError{Path: parsed.Path, Message: msg, RequestID: requestID}

	case parsed.Code == codeOperationFailed || parsed.Code == codePermissionDenied:
		return &apierrors.OperationError{
			Path:             parsed.Path,
			Message:          msg,
			RequestID:        requestID,
			PermissionDenied: parsed.Code == codePermissionDenied,
		}

	case parsed.Code == codeFeatureUnavailable || statusCode == http.StatusNotImplemented:
		return &apierrors.FeatureUnavailableError{Feature: parsed.Feature, Message: msg, RequestID: requestID}

	case statusCode >= 500:
		return &apierrors.ServerError{StatusCode: statusCode, Message: msg, RequestID: requestID}

	default:
		return &apierrors.APIError{
			StatusCode: statusCode,
			Code:       parsed.Code,
			Message:    msg,
			RequestID:  requestID,
		}
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	secs, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
