// Package upstream talks to the remote REST services the dashboard reads from.
// No caching, retry, backoff or rate limiting is applied to any call.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when a service has no base URL.
var ErrNotConfigured = errors.New("service base url not configured")

// StatusError is any non-2xx reply. 4xx and 5xx are treated alike.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// IsNotFound reports whether err is a 404 from a remote service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// TokenSource yields the bearer token for a request; "" sends none.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a pre-issued bearer token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Client is one remote service.
type Client struct {
	Name    string
	BaseURL string
	Tokens  TokenSource
	HTTP    *http.Client
}

func NewClient(name, baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		Name:    name,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tokens:  tokens,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetJSON(ctx context.Context, path string, dst any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", dst)
}

func (c *Client) PostJSON(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", dst)
}

func (c *Client) PutJSON(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(payload), "application/json", dst)
}

// PostMultipart uploads one file plus plain form fields (image uploads).
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, dst any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), dst)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, dst any) error {
	if c == nil || c.BaseURL == "" {
		return ErrNotConfigured
	}
	url := c.BaseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Tokens != nil {
		token, err := c.Tokens.Token()
		if err != nil {
			return fmt.Errorf("build token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if dst == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeBody(raw, dst)
}

// envelopeKeys are the wrappers seen around collections: {"data": [...]}.
var envelopeKeys = []string{"data", "items", "results", "predictions"}

// decodeBody accepts either a bare value or one wrapped in a known envelope.
func decodeBody(raw []byte, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err == nil {
			for _, k := range envelopeKeys {
				if inner, ok := env[k]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '[' {
					return json.Unmarshal(inner, dst)
				}
			}
		}
	}
	return json.Unmarshal(trimmed, dst)
}
