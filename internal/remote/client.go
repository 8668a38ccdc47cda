// Package remote is the typed client for the external Litty backend, which
// owns authentication, challenges, and streak computation. This repo never
// computes any of those; it only reads them and reports reading sessions.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client is the HTTP client for the backend API. All authenticated requests
// carry the bearer token; SetToken swaps it after a login.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates a backend client. The token may be empty for
// unauthenticated endpoints.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken updates the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	return c.httpClient.Do(req)
}

// parseResponse reads and unmarshals the response body. Error bodies carry
// an optional {detail} field which becomes the error text.
func parseResponse[T any](resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Detail == "" {
			return result, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return result, fmt.Errorf("%s", errResp.Detail)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, err
	}

	return result, nil
}

// Authentication

// Login authenticates a user and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	resp, err := c.request(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	auth, err := parseResponse[*AuthResponse](resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return auth, nil
}

// Register creates a new account and stores the returned token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	resp, err := c.request(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	auth, err := parseResponse[*AuthResponse](resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return auth, nil
}

// CurrentUser returns the account behind the configured token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.request(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[*User](resp)
}

// CheckUsername reports whether a username is still available.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	resp, err := c.request(ctx, http.MethodGet, "/auth/check-username/"+url.PathEscape(username), nil)
	if err != nil {
		return false, err
	}
	result, err := parseResponse[map[string]bool](resp)
	if err != nil {
		return false, err
	}
	return result["available"], nil
}

// Challenges and streaks

// Challenges lists all challenges the backend offers.
func (c *Client) Challenges(ctx context.Context) ([]Challenge, error) {
	resp, err := c.request(ctx, http.MethodGet, "/challenges/", nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[[]Challenge](resp)
}

// UserChallenges lists the user's per-challenge progress.
func (c *Client) UserChallenges(ctx context.Context) ([]UserChallenge, error) {
	resp, err := c.request(ctx, http.MethodGet, "/challenges/user/progress", nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[[]UserChallenge](resp)
}

// StartChallenge enrolls the user in a challenge.
func (c *Client) StartChallenge(ctx context.Context, challengeID int) error {
	resp, err := c.request(ctx, http.MethodPost, fmt.Sprintf("/challenges/%d/start", challengeID), nil)
	if err != nil {
		return err
	}
	_, err = parseResponse[json.RawMessage](resp)
	return err
}

// AbandonChallenge withdraws the user from a challenge.
func (c *Client) AbandonChallenge(ctx context.Context, challengeID int) error {
	resp, err := c.request(ctx, http.MethodPost, fmt.Sprintf("/challenges/%d/abandon", challengeID), nil)
	if err != nil {
		return err
	}
	_, err = parseResponse[json.RawMessage](resp)
	return err
}

// Streak fetches the backend-computed streak summary.
func (c *Client) Streak(ctx context.Context) (*Streak, error) {
	resp, err := c.request(ctx, http.MethodGet, "/challenges/user/streak", nil)
	if err != nil {
		return nil, err
	}
	return parseResponse[*Streak](resp)
}

// LogReading reports a finished reading session so the backend can update
// streaks and challenge progress.
func (c *Client) LogReading(ctx context.Context, log ReadingLog) error {
	resp, err := c.request(ctx, http.MethodPost, "/reader/log-reading", log)
	if err != nil {
		return err
	}
	_, err = parseResponse[json.RawMessage](resp)
	return err
}
