// Package client talks to the IsCoolGPT HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"iscoolgpt/models"
)

const (
	SubjectsPath = "/api/v1/subjects"
	ChatPath     = "/api/v1/chat"
)

// APIError is returned when the API answers with a non-2xx status.
// Detail holds the server supplied "detail" field when the body carried one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Error %d", e.StatusCode)
}

// Client is a thin wrapper around resty. It holds no per-request state, so a
// single value may be shared between goroutines.
type Client struct {
	http *resty.Client
}

type Option func(*Client)

// WithTimeout bounds every request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.http.SetHeader(key, value)
	}
}

func New(opts ...Option) *Client {
	c := &Client{http: resty.New()}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetHeader("Accept", "application/json")
	return c
}

// NormalizeBaseURL trims whitespace and a single trailing slash.
func NormalizeBaseURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// Subjects fetches the subject catalog. A nil slice with a nil error means
// the body had no "subjects" field.
func (c *Client) Subjects(ctx context.Context, baseURL string) ([]string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(NormalizeBaseURL(baseURL) + SubjectsPath)
	if err != nil {
		return nil, errors.Wrap(err, "fetch subjects")
	}
	if resp.IsError() || !resp.IsSuccess() {
		return nil, apiError(resp)
	}

	var body models.SubjectsResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "decode subjects")
	}
	if body.Subjects == nil {
		return nil, nil
	}
	return *body.Subjects, nil
}

// Chat posts one user turn. The returned response may carry a nil Response
// field when the API omitted it.
func (c *Client) Chat(ctx context.Context, baseURL string, req models.ChatRequest) (*models.ChatResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(NormalizeBaseURL(baseURL) + ChatPath)
	if err != nil {
		return nil, errors.Wrap(err, "send chat message")
	}
	if resp.IsError() || !resp.IsSuccess() {
		return nil, apiError(resp)
	}

	var body models.ChatResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, "decode chat response")
	}
	return &body, nil
}

// apiError extracts the best available description from a failed response.
func apiError(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Detail = strings.TrimSpace(body.Detail)
	}
	return apiErr
}
