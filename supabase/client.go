// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/office-pulse/httpclient"
)

// Remote tables
const (
	TableOfficeExperiences = "office_experiences"
	TableUserSessions      = "user_sessions"
)

// Prefer header values understood by PostgREST
const (
	ReturnRepresentation = "return=representation"
	ReturnMinimal        = "return=minimal"
)

// maxErrorBody bounds how much of an error response is kept
const maxErrorBody = 4096

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// HTTPError is returned for any non-2xx response
type HTTPError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  httpclient.New(timeout),
	}
}

// Insert POSTs record to /rest/v1/{table} and returns the raw response body
func (c *Client) Insert(ctx context.Context, table string, record any, prefer string) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/"+table, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", table, err)
	}
	return body, nil
}

// InsertReturningID inserts record and returns the id of the first row
// PostgREST echoes back. The id is empty when no row is returned.
func (c *Client) InsertReturningID(ctx context.Context, table string, record any) (string, error) {
	body, err := c.Insert(ctx, table, record, ReturnRepresentation)
	if err != nil {
		return "", err
	}
	return firstID(body)
}

func firstID(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	var rows []struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return "", fmt.Errorf("decode inserted rows: %w", err)
	}
	if len(rows) == 0 || len(rows[0].ID) == 0 {
		return "", nil
	}

	raw := rows[0].ID
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	if string(raw) == "null" {
		return "", nil
	}
	return string(raw), nil
}

// statusText returns the reason phrase the server sent, falling back to the
// standard text for the code
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
