// Package api is the HTTP client for the order-management REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-oms/middleware"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Error is a request the server rejected.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// MessageOr returns the server-provided message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to the REST API. The bearer credential is attached by its transport.
type Client struct {
	base    string
	http    *http.Client
	logger  *zap.Logger
	timeout time.Duration
	rt      http.RoundTripper
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets an overall per-request timeout. The default is none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBaseTransport sets the transport beneath the bearer and tracing layers.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.rt = rt }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, tokens middleware.TokenSource, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	bearer := &middleware.BearerTransport{Base: c.rt, Tokens: tokens}
	c.http = &http.Client{
		Timeout: c.timeout,
		Transport: otelhttp.NewTransport(bearer, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		})),
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s body: %w", path, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// Upload is a file sent as one part of a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// field is one ordered text part of a multipart form.
type field struct {
	name, value string
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, fields []field, fileField string, file *Upload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("writing field %s: %w", f.name, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, file.Filename)
		if err != nil {
			return fmt.Errorf("creating file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("writing file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}
	return c.do(ctx, method, path, &buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("response received",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response) error {
	apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// ReadUpload loads a file from disk for a multipart upload.
func ReadUpload(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	return &Upload{Filename: filepath.Base(path), Data: data}, nil
}
