package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jeevaraksha/hospital-api/internal/auth"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
)

func jsonRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeLoginBodyAcceptsMalformedEmail(t *testing.T) {
	// A present-but-garbage email must pass decoding: the credential check
	// answers 401 and the attempt still lands in login_logs verbatim.
	var body auth.LoginRequest
	err := DecodeJSONBody(jsonRequest(t, `{"email":"not-an-email","password":"x"}`), &body)
	if err != nil {
		t.Fatalf("expected malformed email to decode, got %v", err)
	}
	if body.Email != "not-an-email" {
		t.Fatalf("expected raw email preserved, got %q", body.Email)
	}
}

func TestDecodeLoginBodyRejectsMissingFields(t *testing.T) {
	var body auth.LoginRequest
	err := DecodeJSONBody(jsonRequest(t, `{"email":"someone@hospital.test"}`), &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields, ok := typed.Details()["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields detail, got %v", typed.Details())
	}
	if _, ok := fields["password"]; !ok {
		t.Fatalf("expected password in fields, got %v", fields)
	}
}

func TestDecodeRejectsBrokenJSON(t *testing.T) {
	var body auth.LoginRequest
	err := DecodeJSONBody(jsonRequest(t, `{"email":`), &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
