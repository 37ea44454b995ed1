package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the MindBot backend over JSON HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Vitals fetches the current vitals snapshot and risk assessment. A
// non-empty sessionID is attached as a query parameter; the server echoes
// the authoritative id back in the response.
func (c *Client) Vitals(ctx context.Context, sessionID string) (VitalsResponse, error) {
	path := "/api/vitals"
	if sessionID != "" {
		path += "?session_id=" + url.QueryEscape(sessionID)
	}
	var out VitalsResponse
	if err := c.get(ctx, path, "", &out); err != nil {
		return VitalsResponse{}, err
	}
	return out, nil
}

// Hospitals fetches the hospitals catalog.
func (c *Client) Hospitals(ctx context.Context) ([]Hospital, error) {
	var out struct {
		Hospitals []Hospital `json:"hospitals"`
	}
	if err := c.get(ctx, "/api/hospitals", "", &out); err != nil {
		return nil, err
	}
	return out.Hospitals, nil
}

// AskAI sends one assistant turn.
func (c *Client) AskAI(ctx context.Context, req AskRequest) (AskResponse, error) {
	var out AskResponse
	if err := c.post(ctx, "/api/ask_ai", req, &out); err != nil {
		return AskResponse{}, err
	}
	return out, nil
}

// SOS submits an emergency request with the caller's location.
func (c *Client) SOS(ctx context.Context, req SOSRequest) (SOSResponse, error) {
	var out SOSResponse
	if err := c.post(ctx, "/api/sos", req, &out); err != nil {
		return SOSResponse{}, err
	}
	return out, nil
}

// AdminStats fetches aggregate counters. The token is sent in the
// X-Admin-Token header.
func (c *Client) AdminStats(ctx context.Context, token string) (AdminStats, error) {
	var out AdminStats
	if err := c.get(ctx, "/api/admin/stats", token, &out); err != nil {
		return AdminStats{}, err
	}
	return out, nil
}

// AdminExport downloads the symptom-event CSV export.
func (c *Client) AdminExport(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/admin/export", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Admin-Token", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("admin export: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

// ReportURL returns the report endpoint URL for opening in a browser.
// The report is a binary download, never parsed by the client.
func (c *Client) ReportURL(sessionID string) string {
	u := c.baseURL + "/api/report"
	if sessionID != "" {
		u += "?session_id=" + url.QueryEscape(sessionID)
	}
	return u
}

func (c *Client) get(ctx context.Context, path, adminToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if adminToken != "" {
		req.Header.Set("X-Admin-Token", adminToken)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// statusError builds the failure for a non-2xx response. The message is
// the response body text when the server sent one.
func statusError(code int, body []byte) error {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Errorf("server returned status %d", code)
	}
	return fmt.Errorf("%s", text)
}
