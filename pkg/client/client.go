// Package client is a Go SDK for the PG Pathfinder API. A Client performs
// raw requests; a Session layers sign-in state, token persistence and
// auth-state notifications on top of it.
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

	"pgpathfinder/internal/models"
)

var (
	// ErrSignInRequired is returned without a network call when an
	// operation needs a session and there is none
	ErrSignInRequired = errors.New("sign in required")
	ErrSessionClosed  = errors.New("session closed")
)

// Re-exported wire types
type (
	Profile             = models.Profile
	Listing             = models.Listing
	PublicListing       = models.PublicListing
	ListingInput        = models.ListingInput
	ListingImage        = models.ListingImage
	ListingSearchFilter = models.ListingSearchFilter
	BrowseResult        = models.BrowseResult
	ContactInfo         = models.ContactInfo
	DashboardSummary    = models.DashboardSummary
	AuditLog            = models.AuditLog
	AuditLogFilters     = models.AuditLogFilters
	SignUpRequest       = models.SignUpRequest
	TokenResponse       = models.TokenResponse
)

// APIError is a non-2xx response decoded from the error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		parts := make([]string, 0, len(e.Details))
		for field, msg := range e.Details {
			parts = append(parts, field+" "+msg)
		}
		return fmt.Sprintf("%d %s: %s (%s)", e.Status, e.Code, e.Message, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusOf(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return StatusOf(err) == http.StatusNotFound }
func IsConflict(err error) bool     { return StatusOf(err) == http.StatusConflict }

// Client performs requests against one API base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 30s timeout
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for baseURL, e.g. "https://api.example.com"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  "pgpathfinder-go",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one API call. body is JSON-encoded unless raw is set.
// raw is a byte slice so the request can be replayed after a token refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        interface{}
	raw         []byte
	contentType string
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := r.contentType
	switch {
	case r.raw != nil:
		body = bytes.NewReader(r.raw)
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}

// Public endpoints. They need no session.

// Browse lists approved, active listings matching filter
func (c *Client) Browse(ctx context.Context, filter *ListingSearchFilter) (*BrowseResult, error) {
	var result BrowseResult
	if err := c.do(ctx, request{method: http.MethodGet, path: "/v1/listings", query: browseQuery(filter)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func browseQuery(f *ListingSearchFilter) url.Values {
	q := url.Values{}
	if f == nil {
		return q
	}
	setString := func(key, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(key, v)
		}
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			q.Set(key, fmt.Sprint(*v))
		}
	}

	setString("city", f.City)
	setString("food_type", f.FoodType)
	setString("q", f.Search)
	if f.MinBeds > 0 {
		q.Set("min_beds", fmt.Sprint(f.MinBeds))
	}
	if f.MinRent > 0 {
		q.Set("min_rent", fmt.Sprint(f.MinRent))
	}
	if f.MaxRent > 0 {
		q.Set("max_rent", fmt.Sprint(f.MaxRent))
	}
	setBool("has_ac", f.HasAC)
	setBool("has_wifi", f.HasWifi)
	setBool("has_washing_machine", f.HasWashingMachine)
	return q
}

// SignUp creates an account. It does not sign in.
func (c *Client) SignUp(ctx context.Context, req *SignUpRequest) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, request{method: http.MethodPost, path: "/v1/auth/signup", body: req}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RequestPasswordReset succeeds whether or not the email has an account
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/auth/password/forgot",
		body:   models.PasswordResetRequest{Email: email},
	}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/auth/password/reset",
		body:   models.PasswordResetConfirm{Token: token, Password: password, ConfirmPassword: confirm},
	}, nil)
}

func (c *Client) signIn(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/auth/signin",
		body:   models.SignInRequest{Email: email, Password: password},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/auth/refresh",
		body:   models.RefreshTokenRequest{RefreshToken: refreshToken},
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
