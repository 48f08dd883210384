package minew_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/eslkit/minew-go/pkg/minew"
)

func TestError_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   minew.ErrKind
	}{
		{"http 401", http.StatusUnauthorized, `{"code":401,"msg":"token expired"}`, minew.ErrKindAuth},
		{"http 403", http.StatusForbidden, `{"code":403,"msg":"forbidden"}`, minew.ErrKindAuth},
		{"http 400", http.StatusBadRequest, `{"code":400,"msg":"bad store id"}`, minew.ErrKindValidation},
		{"http 404", http.StatusNotFound, `{"code":404,"msg":"no such route"}`, minew.ErrKindValidation},
		{"http 500", http.StatusInternalServerError, `Internal Server Error`, minew.ErrKindServer},
		{"http 503", http.StatusServiceUnavailable, `{"code":503,"msg":"maintenance"}`, minew.ErrKindServer},
		{"envelope 400", http.StatusOK, `{"code":400,"msg":"missing parameter"}`, minew.ErrKindValidation},
		{"envelope 401", http.StatusOK, `{"code":401,"message":"token expired"}`, minew.ErrKindAuth},
		{"envelope 500", http.StatusOK, `{"code":500,"msg":"server exploded"}`, minew.ErrKindServer},
		{"malformed body", http.StatusOK, `<html>not json</html>`, minew.ErrKindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakePlatform(t)
			f.handleFunc("/esl/store/list", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			c := f.client(t)
			_, err := c.Store.List(context.Background(), minew.StoreOpen, "")
			e, ok := minew.AsError(err)
			if !ok {
				t.Fatalf("err = %v, want *minew.Error", err)
			}
			if e.Kind != tt.want {
				t.Fatalf("Kind = %q, want %q", e.Kind, tt.want)
			}
			if e.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", e.HTTPStatus, tt.status)
			}
		})
	}
}

func TestError_PlainHTTPFailureKeepsStatus(t *testing.T) {
	f := newFakePlatform(t)
	f.handleFunc("/esl/store/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, "Internal Server Error")
	})

	c := f.client(t)
	_, err := c.Store.List(context.Background(), minew.StoreOpen, "")
	if !minew.IsServerError(err) {
		t.Fatalf("err = %v, want server error", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("err = %q, want the HTTP status in the message", err)
	}
	if !strings.Contains(err.Error(), "Internal Server Error") {
		t.Fatalf("err = %q, want the body text in the message", err)
	}
}

func TestError_EnvelopeMessageFallback(t *testing.T) {
	// Some endpoints spell the message field "message" instead of "msg".
	f := newFakePlatform(t)
	f.handle("/esl/store/list", `{"code":400,"message":"spelled out"}`)

	c := f.client(t)
	_, err := c.Store.List(context.Background(), minew.StoreOpen, "")
	e, ok := minew.AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *minew.Error", err)
	}
	if e.Message != "spelled out" {
		t.Fatalf("Message = %q, want %q", e.Message, "spelled out")
	}
}

func TestError_Connection(t *testing.T) {
	f := newFakePlatform(t)
	c := f.client(t, minew.WithToken("cached"))

	// Shut the server down so the request cannot connect.
	f.srv.Close()

	_, err := c.Store.List(context.Background(), minew.StoreOpen, "")
	if !minew.IsConnectionError(err) {
		t.Fatalf("err = %v, want connection error", err)
	}

	// The transport cause stays reachable for callers that need it.
	e, _ := minew.AsError(err)
	if e.Unwrap() == nil {
		t.Fatalf("Unwrap() = nil, want transport cause")
	}
}

func TestError_Predicates(t *testing.T) {
	auth := &minew.Error{Kind: minew.ErrKindAuth, Code: 401, Message: "nope"}
	if !auth.IsAuth() || auth.IsValidation() || auth.IsServer() || auth.IsConnection() {
		t.Fatalf("auth predicates wrong: %+v", auth)
	}

	wrapped := fmt.Errorf("store list: %w", auth)
	if !minew.IsAuthError(wrapped) {
		t.Fatalf("IsAuthError(wrapped) = false, want true")
	}
	if minew.IsValidationError(wrapped) {
		t.Fatalf("IsValidationError(wrapped) = true, want false")
	}

	e, ok := minew.AsError(wrapped)
	if !ok || e != auth {
		t.Fatalf("AsError(wrapped) = %v, %v; want original error", e, ok)
	}

	if minew.IsAuthError(errors.New("plain")) {
		t.Fatalf("IsAuthError(plain) = true, want false")
	}
	if _, ok := minew.AsError(nil); ok {
		t.Fatalf("AsError(nil) = ok, want false")
	}
}

func TestError_Format(t *testing.T) {
	e := &minew.Error{Kind: minew.ErrKindValidation, Code: 400, Message: "missing parameter"}
	got := e.Error()
	for _, part := range []string{"minew:", "missing parameter", "validation", "400"} {
		if !strings.Contains(got, part) {
			t.Errorf("Error() = %q, want it to contain %q", got, part)
		}
	}

	// Local errors have no code and must not print one.
	local := &minew.Error{Kind: minew.ErrKindValidation, Message: "store ID is required"}
	if strings.Contains(local.Error(), "code=") {
		t.Errorf("Error() = %q, want no code for local error", local.Error())
	}
}
