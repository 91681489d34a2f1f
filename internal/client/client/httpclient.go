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
	"sync"
	"time"

	"github.com/dmitrijs2005/osheen/internal/buildinfo"
	"github.com/dmitrijs2005/osheen/internal/client/models"
	"github.com/dmitrijs2005/osheen/internal/common"
	"github.com/google/uuid"
)

const (
	contentTypeJSON = "application/json"

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 1 << 20

	DefaultTimeout = 10 * time.Second
)

type HTTPClient struct {
	baseURL    string
	endpoints  Endpoints
	httpClient *http.Client
	userAgent  string

	mu    sync.RWMutex
	token string
}

type Option func(*HTTPClient)

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoints overrides endpoint paths; empty fields keep their defaults.
func WithEndpoints(e Endpoints) Option {
	return func(c *HTTPClient) {
		if e.Profile != "" {
			c.endpoints.Profile = e.Profile
		}
		if e.Login != "" {
			c.endpoints.Login = e.Login
		}
		if e.Register != "" {
			c.endpoints.Register = e.Register
		}
		if e.Logout != "" {
			c.endpoints.Logout = e.Logout
		}
		if e.Health != "" {
			c.endpoints.Health = e.Health
		}
	}
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: need http(s)://host", baseURL)
	}

	c := &HTTPClient{
		baseURL:    baseURL,
		endpoints:  DefaultEndpoints(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  buildinfo.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// CurrentProfile fetches the profile of the token holder.
func (c *HTTPClient) CurrentProfile(ctx context.Context) (*models.User, error) {
	var env envelope
	if err := c.doRequest(ctx, http.MethodGet, c.endpoints.Profile, nil, &env); err != nil {
		return nil, err
	}
	if !env.succeeded() {
		kind := ErrRejected
		if env.tokenRefused() {
			kind = ErrUnauthorized
		}
		return nil, env.failure(http.StatusOK, kind)
	}
	return env.profile()
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var env envelope
	if err := c.doRequest(ctx, http.MethodPost, c.endpoints.Login, body, &env); err != nil {
		return nil, err
	}
	if !env.succeeded() {
		return nil, env.failure(http.StatusOK, ErrUnauthorized)
	}
	return env.authResult()
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var env envelope
	if err := c.doRequest(ctx, http.MethodPost, c.endpoints.Register, req, &env); err != nil {
		return nil, err
	}
	if !env.succeeded() {
		return nil, env.failure(http.StatusOK, ErrRejected)
	}
	return env.authResult()
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.User, error) {
	var env envelope
	if err := c.doRequest(ctx, http.MethodPost, c.endpoints.Profile, upd, &env); err != nil {
		return nil, err
	}
	if !env.succeeded() {
		return nil, env.failure(http.StatusOK, ErrRejected)
	}
	return env.profile()
}

// Logout tells the backend to drop the current token.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, c.endpoints.Logout, struct{}{}, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.Health, nil, nil)
}

// doRequest performs one JSON exchange. A non-nil result is decoded from the
// response body; a 2xx body that does not decode is ErrMalformedResponse.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body any, result *envelope) error {
	reqURL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, respBody)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// envelope is the common response shape of the backend.
type envelope struct {
	Success *bool           `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Data    json.RawMessage `json:"data"`
}

// succeeded treats a missing success flag as success.
func (e *envelope) succeeded() bool {
	return e.Success == nil || *e.Success
}

// tokenRefusedCodes are the envelope codes that say the bearer token itself
// was refused.
var tokenRefusedCodes = map[string]struct{}{
	"unauthorized":    {},
	"unauthenticated": {},
	"invalid_token":   {},
	"token_invalid":   {},
	"token_expired":   {},
	"token_revoked":   {},
}

func (e *envelope) tokenRefused() bool {
	_, ok := tokenRefusedCodes[strings.ToLower(e.Code)]
	return ok
}

func (e *envelope) failure(status int, kind error) *APIError {
	code := e.Code
	if code == "" {
		code = "unsuccessful"
	}
	return &APIError{StatusCode: status, Code: code, Message: e.Message, kind: kind}
}

type dataBody struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// profile extracts the user from "user", "data.user" or "data", in that order.
func (e *envelope) profile() (*models.User, error) {
	raw := e.User
	if isEmptyJSON(raw) {
		var d dataBody
		if !isEmptyJSON(e.Data) && json.Unmarshal(e.Data, &d) == nil && !isEmptyJSON(d.User) {
			raw = d.User
		} else {
			raw = e.Data
		}
	}
	if isEmptyJSON(raw) {
		return nil, fmt.Errorf("%w: no profile in response", ErrMalformedResponse)
	}

	u, err := models.ParseUser(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return u, nil
}

func (e *envelope) authResult() (*AuthResult, error) {
	token := e.Token
	if token == "" && !isEmptyJSON(e.Data) {
		var d dataBody
		if err := json.Unmarshal(e.Data, &d); err == nil {
			token = d.Token
		}
	}
	if token == "" {
		return nil, fmt.Errorf("%w: no token in response", ErrMalformedResponse)
	}

	u, err := e.profile()
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// IsAuthFailure reports whether err says the credential itself is invalid.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
