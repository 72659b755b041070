package api

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/hopx-ai/hopx-go/internal/apierrors"
)

func TestTranslate_SandboxExpired(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"410 gone", 410, `{"message": "sandbox lifetime ended"}`},
		{"explicit code", 404, `{"code": "SANDBOX_EXPIRED", "message": "gone"}`},
		{"code wins over other fields", 200, `{"code": "SANDBOX_EXPIRED", "path": "/x", "message": "not found"}`},
		{"404 naming a sandbox", 404, `{"message": "sandbox sbx-1 not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(tt.status, []byte(tt.body), nil)

			var expErr *apierrors.SandboxExpiredError
			if !errors.As(err, &expErr) {
				t.Fatalf("error = %T (%v), want *SandboxExpiredError", err, err)
			}
		})
	}
}

func TestTranslate_SandboxExpired_Metadata(t *testing.T) {
	body := `{
		"code": "SANDBOX_EXPIRED",
		"message": "sandbox expired",
		"sandbox_id": "sbx-42",
		"last_status": "stopped",
		"started_at": "2026-08-30T10:00:00Z",
		"ended_at": "2026-08-30T11:00:00Z",
		"request_id": "req-9"
	}`

	err := Translate(410, []byte(body), nil)

	var expErr *apierrors.SandboxExpiredError
	if !errors.As(err, &expErr) {
		t.Fatalf("error = %T, want *SandboxExpiredError", err)
	}
	if expErr.SandboxID != "sbx-42" {
		t.Errorf("SandboxID = %q", expErr.SandboxID)
	}
	if expErr.LastStatus != "stopped" {
		t.Errorf("LastStatus = %q", expErr.LastStatus)
	}
	if expErr.StartedAt.IsZero() || expErr.EndedAt.Sub(expErr.StartedAt) != time.Hour {
		t.Errorf("timestamps not carried: %v .. %v", expErr.StartedAt, expErr.EndedAt)
	}
	if expErr.RequestID != "req-9" {
		t.Errorf("RequestID = %q", expErr.RequestID)
	}
}

func TestTranslate_TokenExpired(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"explicit code", `{"code": "TOKEN_EXPIRED", "message": "jwt expired"}`},
		{"message signal", `{"message": "access token expired at 10:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(401, []byte(tt.body), nil)

			var tokErr *apierrors.TokenExpiredError
			if !errors.As(err, &tokErr) {
				t.Fatalf("error = %T (%v), want *TokenExpiredError", err, err)
			}
		})
	}
}

func TestTranslate_TokenExpiredCodeRequires401(t *testing.T) {
	// The token-expiry signal only applies to a 401.
	err := Translate(400, []byte(`{"code": "TOKEN_EXPIRED"}`), nil)

	var tokErr *apierrors.TokenExpiredError
	if errors.As(err, &tokErr) {
		t.Fatalf("TOKEN_EXPIRED on a 400 must not map to token expiry, got %T", err)
	}
}

func TestTranslate_Authentication(t *testing.T) {
	err := Translate(401, []byte(`{"message": "invalid API key"}`), nil)

	var authErr *apierrors.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %T (%v), want *AuthenticationError", err, err)
	}
	if authErr.Message != "invalid API key" {
		t.Errorf("Message = %q", authErr.Message)
	}
}

func TestTranslate_RateLimit(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "7")

	err := Translate(429, []byte(`{"message": "slow down"}`), header)

	var rlErr *apierrors.RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("error = %T (%v), want *RateLimitError", err, err)
	}
	if rlErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rlErr.RetryAfter)
	}
}

func TestTranslate_FileNotFound(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantPath string
	}{
		{
			name:     "404 with message and path",
			status:   404,
			body:     `{"message": "file not found", "path": "/home/user/missing.txt"}`,
			wantPath: "/home/user/missing.txt",
		},
		{
			name:     "403 with explicit code",
			status:   403,
			body:     `{"code": "FILE_NOT_FOUND", "path": "/etc/app.conf"}`,
			wantPath: "/etc/app.conf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(tt.status, []byte(tt.body), nil)

			var nfErr *apierrors.FileNotFoundError
			if !errors.As(err, &nfErr) {
				t.Fatalf("error = %T (%v), want *FileNotFoundError", err, err)
			}
			if nfErr.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", nfErr.Path, tt.wantPath)
			}
		})
	}
}

func TestTranslate_NotFoundWithoutPathIsNotFileError(t *testing.T) {
	err := Translate(404, []byte(`{"message": "route not found"}`), nil)

	var nfErr *apierrors.FileNotFoundError
	if errors.As(err, &nfErr) {
		t.Fatal("a pathless 404 must not map to FileNotFoundError")
	}
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want fallback *APIError", err)
	}
}

func TestTranslate_Operation(t *testing.T) {
	err := Translate(422, []byte(`{"code": "OPERATION_FAILED", "message": "busy", "path": "/tmp/lock"}`), nil)

	var opErr *apierrors.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %T (%v), want *OperationError", err, err)
	}
	if opErr.PermissionDenied {
		t.Error("PermissionDenied = true, want false")
	}
	if opErr.Path != "/tmp/lock" {
		t.Errorf("Path = %q", opErr.Path)
	}
}

func TestTranslate_PermissionDenied(t *testing.T) {
	err := Translate(403, []byte(`{"code": "PERMISSION_DENIED", "message": "root required", "path": "/etc/shadow"}`), nil)

	var opErr *apierrors.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("error = %T (%v), want *OperationError", err, err)
	}
	if !opErr.PermissionDenied {
		t.Error("PermissionDenied = false, want true")
	}
	if !errors.Is(err, apierrors.ErrPermissionDenied) {
		t.Error("expected match against ErrPermissionDenied")
	}
}

func TestTranslate_FeatureUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"explicit code", 400, `{"code": "FEATURE_UNAVAILABLE", "feature": "desktop"}`},
		{"501", 501, `{"message": "not implemented"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Translate(tt.status, []byte(tt.body), nil)

			var featErr *apierrors.FeatureUnavailableError
			if !errors.As(err, &featErr) {
				t.Fatalf("error = %T (%v), want *FeatureUnavailableError", err, err)
			}
		})
	}
}

func TestTranslate_ServerError(t *testing.T) {
	err := Translate(500, []byte(`{"message": "internal error"}`), nil)

	var srvErr *apierrors.ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("error = %T (%v), want *ServerError", err, err)
	}
	if srvErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d", srvErr.StatusCode)
	}
}

func TestTranslate_Fallback(t *testing.T) {
	err := Translate(409, []byte(`{"code": "CONFLICT", "message": "already exists", "request_id": "req-1"}`), nil)

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T (%v), want *APIError", err, err)
	}
	if apiErr.StatusCode != 409 || apiErr.Code != "CONFLICT" || apiErr.RequestID != "req-1" {
		t.Errorf("fields not carried: %+v", apiErr)
	}
}

func TestTranslate_PlainTextBody(t *testing.T) {
	err := Translate(400, []byte("bad request\n"), nil)

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Message != "bad request" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestTranslate_RequestIDFromHeader(t *testing.T) {
	header := http.Header{}
	header.Set("X-Request-Id", "hdr-req-1")

	err := Translate(400, []byte(`{"message": "nope"}`), header)

	if got := apierrors.RequestID(err); got != "hdr-req-1" {
		t.Errorf("RequestID = %q, want hdr-req-1", got)
	}

	// A body-supplied request id wins over the header.
	err = Translate(400, []byte(`{"message": "nope", "request_id": "body-req-1"}`), header)
	if got := apierrors.RequestID(err); got != "body-req-1" {
		t.Errorf("RequestID = %q, want body-req-1", got)
	}
}

func TestTranslate_Precedence(t *testing.T) {
	// Multiple signals at once: the sandbox-expired match wins over the
	// file-not-found match on the same body.
	body := `{"message": "sandbox not found", "path": "/x", "code": ""}`

	err := Translate(404, []byte(body), nil)

	var expErr *apierrors.SandboxExpiredError
	if !errors.As(err, &expErr) {
		t.Fatalf("error = %T, want *SandboxExpiredError (precedence rule 1)", err)
	}
}

func TestTranslate_Idempotent(t *testing.T) {
	// Pure function: the same input yields equivalent errors every time.
	header := http.Header{}
	header.Set("X-Request-Id", "req-pure")
	body := []byte(`{"message": "file not found", "path": "/a/b"}`)

	first := Translate(404, body, header)
	second := Translate(404, body, header)

	if reflect.TypeOf(first) != reflect.TypeOf(second) {
		t.Fatalf("kinds differ: %T vs %T", first, second)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("fields differ: %#v vs %#v", first, second)
	}
}
