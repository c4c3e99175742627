// Package apiclient is the single HTTP entry point to the ShowMeTasks API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"showmetasks/internal/telemetry"
)

const (
	// DefaultBaseURL is used when no API URL is configured.
	DefaultBaseURL = "http://localhost:8080/api/todos"

	// FallbackMessage is the error text used when a failed response has no body.
	FallbackMessage = "API request failed!"

	// RequestIDHeader carries a per-request id for server-side correlation.
	RequestIDHeader = "X-Request-ID"
)

// Options describes one request. A zero Options is an anonymous GET.
type Options struct {
	Method string
	Token  string
	Body   any
}

// Client issues JSON requests against a base URL.
// Requests are single-shot: no retries and no client-side timeout.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *log.Logger
}

// New creates a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Logger:  log.StandardLogger(),
	}
}

// Request sends the request and returns the raw JSON body.
// A 204 response returns a nil body and no error.
func (c *Client) Request(ctx context.Context, path string, opts Options) (_ []byte, err error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := telemetry.Tracer().Start(ctx, "apiclient.request")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("url.path", path),
	)
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if opts.Body != nil {
		buf, err := sonic.ConfigStd.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	c.logger().WithFields(log.Fields{
		"method":     method,
		"path":       path,
		"request_id": reqID,
	}).Debug("api.request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &TransportError{Err: readErr}
		}
		msg := string(text)
		if strings.TrimSpace(msg) == "" {
			msg = FallbackMessage
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return data, nil
}

// Do sends the request and decodes the response into out.
// out is left untouched on 204 or when it is nil.
func (c *Client) Do(ctx context.Context, path string, opts Options, out any) error {
	data, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	if data == nil || out == nil {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *log.Logger {
	if c.Logger == nil {
		return log.StandardLogger()
	}
	return c.Logger
}

// RequestError is a non-2xx response. Message is the response body text.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string { return e.Message }

// HTTPStatus returns the response status code.
func (e *RequestError) HTTPStatus() int { return e.StatusCode }

// TransportError is a failure to reach the API or to read its response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "network error: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
