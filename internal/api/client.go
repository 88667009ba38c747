// Package api is the HTTP client for the Lime Store REST API. It decorates
// every request with the stored bearer token, shapes JSON and multipart
// bodies, and reports credential rejection to the session layer. It is not a
// protocol implementation; transport is delegated to net/http.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/limestore/limectl/internal/errs"
)

// TokenSource supplies the bearer token and receives credential-rejection
// signals. The session service implements it.
type TokenSource interface {
	Token() (string, bool)
	HandleAuthFailure(status int, message string) bool
}

// Error is a failed API call. Unwrap yields the sentinel for the
// failure class so callers can errors.Is against errs.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Unwrap maps the failure onto the error taxonomy.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == 401 || e.Status == 422:
		return errs.ErrUnauthorized
	case strings.Contains(strings.ToLower(e.Message), "token has expired"):
		return errs.ErrUnauthorized
	case e.Status == 403:
		return errs.ErrForbidden
	case e.Status == 404:
		return errs.ErrNotFound
	case e.Status == 413:
		return errs.ErrPayloadTooLarge
	default:
		return nil
	}
}

// Client calls the Lime Store API at a fixed base URL.
type Client struct {
	base   *url.URL
	httpc  *http.Client
	tokens TokenSource
	log    *zap.Logger
}

// New constructs a Client. tokens may be nil for a purely anonymous client.
func New(baseURL string, tokens TokenSource, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", baseURL)
	}
	return &Client{
		base:   u,
		httpc:  &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
		log:    log,
	}, nil
}

// endpoint joins the base URL with an API path and optional query.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// decorate attaches the Authorization header when a token is held.
func (c *Client) decorate(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if tok, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// do performs one JSON request. body is marshalled when non-nil; the
// response is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, header http.Header) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rd)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.send(req, out)
}

// filePart is one file in a multipart upload.
type filePart struct {
	field    string
	filename string
	r        io.Reader
}

// doMultipart performs one multipart/form-data request. No content type is
// set at the call site beyond the writer's own, so the boundary is always
// correct.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files []filePart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("api: multipart field %q: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			return fmt.Errorf("api: multipart file %q: %w", f.filename, err)
		}
		if _, err := io.Copy(part, f.r); err != nil {
			return fmt.Errorf("api: multipart read %q: %w", f.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: multipart finalize: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

// send decorates, executes, and decodes one prepared request.
func (c *Client) send(req *http.Request, out any) error {
	c.decorate(req)
	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return c.failure(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// failure turns a non-2xx response into an *Error. When stored credentials
// exist and the failure is authentication-class, the session layer clears
// them and raises its session-expired signal; the error is returned to the
// caller regardless.
func (c *Client) failure(resp *http.Response) error {
	msg := readErrorMessage(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if c.tokens != nil {
		c.tokens.HandleAuthFailure(resp.StatusCode, msg)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

// readErrorMessage extracts "error" or "message" from a JSON error body.
func readErrorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(b))
}
