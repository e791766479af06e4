// Package apiclient handles all communication with the kanban backend's REST
// API. It owns the session: cookies set by login are kept in a jar and the
// CSRF token cookie is echoed as a header on every mutating request.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/boardsync-dev/boardsync/shared/errors"
)

const (
	csrfCookieName = "csrf_access_token"
	csrfHeaderName = "X-CSRF-TOKEN-ACCESS"
)

type APIClient struct {
	BaseURL    string
	HttpClient *http.Client

	baseURL  *url.URL
	validate *validator.Validate
}

// New creates a client for interacting with the backend. The jar keeps the
// access and CSRF cookies issued by login.
func New(baseURL string, timeout time.Duration) (*APIClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Jar: jar, Timeout: timeout},
		baseURL:    parsed,
		validate:   validator.New(),
	}, nil
}

// do is the single, unified helper for making API requests. Mutating verbs
// carry the CSRF token header mirrored from the cookie.
func (c *APIClient) do(method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodDelete:
		if token := c.csrfToken(); token != "" {
			req.Header.Set(csrfHeaderName, token)
		}
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

// SessionCookies exposes the current session cookies so the realtime stream
// can authenticate its websocket handshake with the same session.
func (c *APIClient) SessionCookies() []*http.Cookie {
	return c.HttpClient.Jar.Cookies(c.baseURL)
}

func (c *APIClient) csrfToken() string {
	for _, cookie := range c.HttpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

// decode reads a 2xx response into out, otherwise turns the body into an
// ErrorWithStatusCode so callers can surface validation and permission
// failures as-is.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("request failed: %s", string(bodyBytes)),
			StatusCode: resp.StatusCode,
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode response: %w", err)
	}
	return nil
}

// Login establishes the session; the response cookies land in the jar.
func (c *APIClient) Login(username, password string) error {
	creds := map[string]string{"username": username, "password": password}
	resp, err := c.do("POST", "/login", creds)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *APIClient) Logout() error {
	resp, err := c.do("POST", "/logout", nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
