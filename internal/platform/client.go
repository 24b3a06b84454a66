// Package platform is the HTTP client for the remote TVICL REST API: auth,
// property CRUD and analytics. Tokens arrive as HTTP-only cookies; the client
// keeps them in a jar and transparently refreshes on 401.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("platform: unauthorized")

// APIError is a non-2xx platform response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform: %d %s", e.Status, e.Message)
}

type Client struct {
	base string
	hc   *http.Client

	refreshMu sync.Mutex // single-flight token refresh
}

func New(base string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// User is the authenticated platform user as returned by /auth/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type userEnvelope struct {
	User User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out, false); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, false)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Refresh rotates the token cookies. Transient failures are retried with a
// short growing delay before the session is given up on.
func (c *Client) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		lastErr = c.doJSON(ctx, http.MethodPost, "/auth/refresh-token", nil, nil, false)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("token refresh failed: %w", lastErr)
}

// TokenExpiry inspects the jar's JWT cookies and returns the earliest expiry,
// letting callers refresh proactively instead of waiting for a 401. The
// tokens are parsed unverified; the platform owns the signing secret.
func (c *Client) TokenExpiry() (time.Time, bool) {
	u, err := url.Parse(c.base)
	if err != nil {
		return time.Time{}, false
	}
	var earliest time.Time
	parser := jwt.NewParser()
	for _, ck := range c.hc.Jar.Cookies(u) {
		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(ck.Value, claims); err != nil {
			continue
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			continue
		}
		if earliest.IsZero() || exp.Time.Before(earliest) {
			earliest = exp.Time
		}
	}
	return earliest, !earliest.IsZero()
}

// doJSON performs one JSON request. With retryAuth set, a 401 triggers a
// single-flight refresh and exactly one retry.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, retryAuth bool) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && retryAuth {
		drain(resp)
		if err := c.Refresh(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		resp, err = c.send(ctx, method, path, in)
		if err != nil {
			return err
		}
	}
	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.hc.Do(req)
}

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		drainBody(resp.Body)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(b, &e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		if msg == "" {
			msg = strings.TrimSpace(string(b))
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		drainBody(resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func drain(resp *http.Response) {
	drainBody(resp.Body)
	resp.Body.Close()
}

func drainBody(r io.Reader) { _, _ = io.Copy(io.Discard, io.LimitReader(r, 1<<16)) }
