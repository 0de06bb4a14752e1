// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ipecho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/office-pulse/httpclient"
	"github.com/danielhkuo/office-pulse/models"
)

type Client struct {
	url    string
	client *http.Client
}

type echoResponse struct {
	IP string `json:"ip"`
}

func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:    strings.TrimSpace(url),
		client: httpclient.New(timeout),
	}
}

// LookupIP asks the echo service for the caller's public address
func (c *Client) LookupIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("ip echo: http %d", resp.StatusCode)
	}

	var data echoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("ip echo: decode: %w", err)
	}
	ip := strings.TrimSpace(data.IP)
	if ip == "" {
		return "", errors.New("ip echo: missing 'ip' key")
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("ip echo: not an IP address: %q", ip)
	}
	return ip, nil
}

// Lookup is the best-effort form of LookupIP: failures are logged and
// reported as models.UnknownIP
func (c *Client) Lookup(ctx context.Context) string {
	ip, err := c.LookupIP(ctx)
	if err != nil {
		slog.Warn("ip lookup failed", "error", err)
		return models.UnknownIP
	}
	return ip
}
