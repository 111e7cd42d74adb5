package gateway

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

	"github.com/google/uuid"

	"github.com/locvowork/employee_admin_console/internal/logger"
)

// NetworkErrorMessage is surfaced whenever a request gets no response at all.
const NetworkErrorMessage = "Network error. Please check your connection and try again."

// APIError is the uniform failure type for every outbound call. Status is 0
// for transport failures (no response received).
type APIError struct {
	Message string
	Status  int
	Body    []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether the server answered 404.
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// TokenProvider supplies the bearer token at dispatch time. The session store
// implements it; reading per-request keeps components from caching stale tokens.
type TokenProvider interface {
	Token() string
}

// Client is the single point of outbound HTTP. It injects authorization,
// normalizes success payloads into caller structs and translates failures
// into *APIError.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

// NewClient builds a gateway client for baseURL. A zero timeout falls back to
// 10 seconds, matching the backend's expected worst case.
func NewClient(baseURL string, timeout time.Duration, tokens TokenProvider) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the underlying client for long-lived requests (the
// notification stream manages its own timeouts).
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Transport: c.http.Transport}
}

// Get issues a GET with optional query parameters and decodes the response
// body into out when out is non-nil.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, "", out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, endpoint, body, out)
}

// Patch issues a PATCH with an optional JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	return c.doJSON(ctx, http.MethodPatch, endpoint, body, out)
}

// Delete issues a DELETE. The backend returns 2xx with no required body.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, "", nil)
}

// PostMultipart uploads content as a multipart form under the field "file".
func (c *Client) PostMultipart(ctx context.Context, endpoint, filename string, content []byte, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build upload request: %v", err)}
	}
	if _, err := part.Write(content); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build upload request: %v", err)}
	}
	if err := writer.Close(); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build upload request: %v", err)}
	}
	return c.do(ctx, http.MethodPost, endpoint, nil, &buf, writer.FormDataContentType(), out)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("failed to encode request body: %v", err)}
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, endpoint, nil, reader, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Token is read at dispatch time, never cached per component.
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.WarnLog(ctx, "Request %s %s failed: %v", method, endpoint, err)
		return &APIError{Message: NetworkErrorMessage, Status: 0}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: NetworkErrorMessage, Status: 0}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServerError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{
				Message: fmt.Sprintf("failed to decode response: %v", err),
				Status:  resp.StatusCode,
				Body:    data,
			}
		}
	}
	return nil
}

// newServerError extracts the message field from a structured error body,
// falling back to a generic message carrying the status code.
func newServerError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Message: fmt.Sprintf("HTTP error! status: %d", status),
		Status:  status,
		Body:    body,
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}
