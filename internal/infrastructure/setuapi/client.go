// Package setuapi is the HTTP client for the Sanjeevani Setu record API.
// Every outcome is normalized into the apierr taxonomy: transport failures
// become network errors, non-2xx responses become http errors carrying the
// server's message, and undecodable bodies become unknown errors.
package setuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"setu/internal/apierr"
)

const defaultTimeout = 10 * time.Second

// Client handles communication with the Setu backend API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an API client rooted at baseURL. A non-positive timeout
// falls back to the 10s default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// errorResponse is the error envelope the backend returns on failures.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do executes one request and returns the raw response body.
// A non-empty token is injected as a Bearer authorization header.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apierr.Unknown(fmt.Errorf("failed to create request: %w", err))
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response received: offline, DNS failure, or timeout.
		return nil, apierr.Network(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Network(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
			msg := errResp.Message
			if msg == "" {
				msg = errResp.Error
			}
			return nil, apierr.HTTP(resp.StatusCode, msg)
		}
		return nil, apierr.HTTP(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return data, nil
}

// doJSON marshals payload (when non-nil) and executes the request.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, token string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apierr.Unknown(fmt.Errorf("failed to encode payload: %w", err))
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", token)
}

// decode unmarshals an API response body into v.
func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return apierr.Unknown(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// unwrap extracts a single named field from a JSON object response.
// The backend wraps both collections and created records this way
// (e.g. {"documents": [...]}, {"newPrescription": {...}}).
func unwrap(data []byte, field string) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, apierr.Unknown(fmt.Errorf("failed to decode response envelope: %w", err))
	}
	raw, ok := envelope[field]
	if !ok {
		return nil, apierr.Unknown(fmt.Errorf("response missing %q field", field))
	}
	return raw, nil
}

// multipartBody assembles a multipart form with string fields and an
// optional file part.
func multipartBody(fields map[string]string, file *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", apierr.Unknown(fmt.Errorf("failed to write field %q: %w", name, err))
		}
	}

	if file != nil {
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", apierr.Unknown(fmt.Errorf("failed to create file part: %w", err))
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", apierr.Unknown(fmt.Errorf("failed to write file part: %w", err))
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", apierr.Unknown(fmt.Errorf("failed to finalize multipart body: %w", err))
	}
	return &buf, w.FormDataContentType(), nil
}
