// Package supabase is a minimal PostgREST client covering the handful of
// operations allset needs: single-row reads keyed by a column, keyed
// patches, and upserts with an ON CONFLICT target. It talks to the
// hosted database's REST endpoint directly.
package supabase

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
)

// ErrNotFound is returned when a single-row read matches no rows.
var ErrNotFound = errors.New("row not found")

// APIError is a non-2xx response from the REST endpoint.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: status %d (code %s): %s", e.Status, e.Code, e.Message)
}

// MissingTable reports whether the error indicates the target table does
// not exist (undefined table in Postgres, unknown relation in PostgREST).
func (e *APIError) MissingTable() bool {
	return e.Code == "42P01" || strings.HasPrefix(e.Code, "PGRST2")
}

// ConnError is a transport-level failure reaching the endpoint.
type ConnError struct {
	Err error
}

func (e *ConnError) Error() string { return fmt.Sprintf("supabase: connection failed: %v", e.Err) }

func (e *ConnError) Unwrap() error { return e.Err }

// Client issues PostgREST requests against a project endpoint.
type Client struct {
	baseURL string
	key     string
	client  *http.Client
}

// New creates a client for the given project URL and service key.
func New(baseURL, key string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		key:     key,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) endpoint(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
}

// SelectSingle reads the columns of the single row where keyCol equals
// key. Returns ErrNotFound when no row matches.
func (c *Client) SelectSingle(ctx context.Context, table, keyCol, key, columns string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("select", columns)
	q.Set(keyCol, "eq."+key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(table)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnError{Err: err}
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotAcceptable {
		// PGRST116: singular response requested but zero rows matched.
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	return json.RawMessage(body), nil
}

// Upsert inserts rows, resolving conflicts on the given column list by
// updating the existing row.
func (c *Client) Upsert(ctx context.Context, table string, rows any, onConflict string) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshalling rows: %w", err)
	}

	target := c.endpoint(table)
	if onConflict != "" {
		target += "?on_conflict=" + url.QueryEscape(onConflict)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respBody)
	}
	return nil
}

// Update patches rows where keyCol equals key and returns how many
// rows matched. PostgREST answers 200 even when the filter matched
// nothing, so callers that need an existing row must check the count.
func (c *Client) Update(ctx context.Context, table, keyCol, key string, patch any) (int, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return 0, fmt.Errorf("marshalling patch: %w", err)
	}

	target := c.endpoint(table) + "?" + keyCol + "=eq." + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, target, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &ConnError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &ConnError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, parseAPIError(resp.StatusCode, respBody)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return 0, fmt.Errorf("decoding patched rows: %w", err)
	}
	return len(rows), nil
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
