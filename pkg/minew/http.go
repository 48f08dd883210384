package minew

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// maxResponseBytes caps how much of a response body is read. Template
// previews arrive as base64 images, so bodies are large but bounded.
const maxResponseBytes = 4 << 20

// httpClient handles HTTP communication with the Minew platform.
type httpClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:    cfg.httpClient,
		baseURL:   strings.TrimRight(cfg.baseURL, "/"),
		userAgent: cfg.userAgent,
	}
}

// envelope is the common response wrapper returned by every endpoint. The
// platform spells the message field two ways depending on the endpoint.
type envelope struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// text returns the server message, whichever field carried it.
func (e *envelope) text() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

// reply is the envelope subset decoded for endpoints whose only payload is
// the confirmation message.
type reply struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// text returns the server message, whichever field carried it.
func (r *reply) text() string {
	if r.Msg != "" {
		return r.Msg
	}
	return r.Message
}

// request makes a single HTTP request to the API. Query parameters go into
// the URL, body is JSON-encoded when non-nil, and the full response body is
// decoded into result. Every failure comes back as a classified *Error.
func (h *httpClient) request(ctx context.Context, method, path string, query url.Values, token string, body any, result any) error {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyData []byte
	var bodyReader io.Reader
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	h.setHeaders(req, token)
	if bodyData != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		msg := "request failed"
		if os.IsTimeout(err) {
			msg = "request timed out"
		}
		return &Error{Kind: ErrKindConnection, Message: msg, cause: err}
	}
	defer resp.Body.Close()

	return h.handleResponse(resp, result)
}

// setHeaders sets common headers for API requests. The login endpoint is
// the only one called without a token.
func (h *httpClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("User-Agent", h.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// handleResponse maps the platform response onto result or onto a
// classified error.
func (h *httpClient) handleResponse(resp *http.Response, result any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Kind: ErrKindConnection, Message: "read response body", cause: err}
	}

	// Check HTTP status
	if resp.StatusCode != http.StatusOK {
		return h.parseError(body, resp.StatusCode)
	}

	// The platform reports most failures through the envelope code with
	// HTTP 200, so the envelope check comes before any result decoding.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &Error{
			Kind:       ErrKindServer,
			Message:    "malformed response: " + err.Error(),
			HTTPStatus: resp.StatusCode,
		}
	}
	if env.Code != http.StatusOK {
		return &Error{
			Kind:       classifyCode(env.Code),
			Code:       env.Code,
			Message:    env.text(),
			HTTPStatus: resp.StatusCode,
		}
	}

	// Parse response into result if provided
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return &Error{
				Kind:       ErrKindServer,
				Message:    "unmarshal response: " + err.Error(),
				HTTPStatus: resp.StatusCode,
			}
		}
	}

	return nil
}

// parseError parses a non-200 HTTP response into a classified error.
func (h *httpClient) parseError(body []byte, httpStatus int) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Code != 0 {
		return &Error{
			Kind:       classifyCode(httpStatus),
			Code:       env.Code,
			Message:    env.text(),
			HTTPStatus: httpStatus,
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(httpStatus)
	}
	return &Error{
		Kind:       classifyCode(httpStatus),
		Code:       httpStatus,
		Message:    msg,
		HTTPStatus: httpStatus,
	}
}

// classifyCode maps an HTTP status onto an error kind. The platform reuses
// HTTP-style codes inside its response envelope, so envelope codes go
// through the same mapping.
func classifyCode(code int) ErrKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrKindAuth
	case code >= 400 && code < 500:
		return ErrKindValidation
	default:
		return ErrKindServer
	}
}
