// Package client talks to the symptom-checker service over its three JSON
// endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sickscan/sickscan-tui/internal/symptom"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 8 << 20
)

var ErrInvalidBaseURL = errors.New("invalid service url")

// ServiceError is a failure the service reported itself, either through an
// "error" field in the body or a non-2xx status.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// TransportError wraps network and decoding failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type AnalyzeResult struct {
	Symptoms    []symptom.Symptom `json:"symptoms"`
	DetectedIDs []symptom.ID      `json:"detected_ids,omitempty"`
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type predictRequest struct {
	Symptoms []symptom.ID `json:"symptoms"`
}

type predictResponse struct {
	Predictions []symptom.Prediction `json:"predictions"`
}

type errorBody struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchCatalog returns every symptom the service knows.
func (c *Client) FetchCatalog(ctx context.Context) ([]symptom.Symptom, error) {
	var out []symptom.Symptom
	if err := c.do(ctx, http.MethodGet, "/all_symptoms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze sends free text for symptom extraction.
func (c *Client) Analyze(ctx context.Context, text string) (*AnalyzeResult, error) {
	var out AnalyzeResult
	if err := c.do(ctx, http.MethodPost, "/analyze", analyzeRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Predict ranks diseases for the given symptom ids.
func (c *Client) Predict(ctx context.Context, ids []symptom.ID) ([]symptom.Prediction, error) {
	if ids == nil {
		ids = []symptom.ID{}
	}
	var out predictResponse
	if err := c.do(ctx, http.MethodPost, "/predict", predictRequest{Symptoms: ids}, &out); err != nil {
		return nil, err
	}
	return out.Predictions, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: "encode " + path, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return &TransportError{Op: "build " + path, Err: err}
	}
	rid := uuid.NewString()
	req.Header.Set(RequestIDHeader, rid)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("request_id", rid).
			Str("method", method).
			Str("path", path).
			Dur("latency", time.Since(start)).
			Msg("request failed")
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	c.logger.Debug().
		Str("request_id", rid).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("latency", time.Since(start)).
		Msg("request")

	if err != nil {
		return &TransportError{Op: "read " + path, Err: err}
	}

	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
		return &ServiceError{Status: resp.StatusCode, Message: eb.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &ServiceError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: "decode " + path, Err: err}
	}
	return nil
}
