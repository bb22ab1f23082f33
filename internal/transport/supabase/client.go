// Package supabase talks to a Supabase project over its REST surface.
// The key a client is created with selects its privilege level: the public
// anon key for identity verification scoped to a caller's bearer credential,
// the service-role key for analytics inserts that bypass row-level policies.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/podiumlabs/podium/internal/domain"
)

// Client is a minimal Supabase REST client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for the given project URL and API key.
func New(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// No client-side timeout: outbound calls are bounded only by the
		// request lifetime (known limitation).
		http:   &http.Client{},
		logger: logger,
	}
}

// GetUser resolves the principal behind the caller's authorization header via
// the identity service. Any failure — transport error, non-200 status, or a
// response without a user id — maps to domain.ErrUnauthorized: the check is
// binary.
func (c *Client) GetUser(ctx context.Context, authHeader string) (domain.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", http.NoBody)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("get user: %v: %w", err, domain.ErrUnauthorized)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Principal{}, fmt.Errorf("identity service status %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.Principal{}, fmt.Errorf("decode user: %v: %w", err, domain.ErrUnauthorized)
	}
	if user.ID == "" {
		return domain.Principal{}, fmt.Errorf("no user in identity response: %w", domain.ErrUnauthorized)
	}

	return domain.Principal{ID: user.ID, Email: user.Email}, nil
}

// Insert appends rows to a PostgREST table. rows may be a single object or a
// slice; PostgREST accepts both.
func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows for %s: %w", table, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/rest/v1/"+table, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build insert request for %s: %w", table, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("insert into %s: status %d: %s", table, resp.StatusCode, string(detail))
	}

	return nil
}

// HealthCheck probes the identity service health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity health: status %d", resp.StatusCode)
	}
	return nil
}
