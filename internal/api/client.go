// Package api is the client for the DermaLink backend. It owns transport,
// bearer injection and error classification; nothing above it looks at raw
// HTTP statuses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"dermalink/mobile/internal/config"
)

type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	log       zerolog.Logger
}

func New(cfg config.APIConfig, logger zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newLoggingTransport(nil, logger),
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		log:       logger,
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path, token string, build func(*multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := build(mw); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, token, out)
}

func (c *Client) send(req *http.Request, token string, out any) error {
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return req.Context().Err()
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &statusError{status: resp.StatusCode}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.classifyUnauthorized(resp.Body)
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{Status: resp.StatusCode, Message: eb.text()}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A 2xx with an undecodable body is as useless as no answer.
		return fmt.Errorf("%w: malformed response: %v", ErrUnreachable, err)
	}
	return nil
}

// classifyUnauthorized splits the backend's 401s: an explicitly expired token
// means the session is dead and must be purged; everything else is invalid
// credentials. Both fail closed.
func (c *Client) classifyUnauthorized(body io.Reader) error {
	var eb errorBody
	_ = json.NewDecoder(body).Decode(&eb)
	if strings.Contains(strings.ToLower(eb.text()), "expired") {
		return ErrAuthExpired
	}
	return ErrAuthInvalid
}
