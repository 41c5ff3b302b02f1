package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dungeonforge/crawl-engine/internal/mcp"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Client talks to the crawl engine API. Every request carries the same
// session ID, so one Client is one playthrough.
type Client struct {
	http      *http.Client
	baseURL   string
	SessionID uuid.UUID
}

func NewClient(baseURL string, sessionID uuid.UUID, timeout time.Duration) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		SessionID: sessionID,
	}
}

func (c *Client) Health() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// Call runs one tool call. Game-rule rejections come back as a normal
// result with IsError set; the error return is for transport problems.
func (c *Client) Call(name string, args map[string]any) (*mcp.CallResult, error) {
	jsonData, err := json.Marshal(mcp.CallRequest{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/mcp/call", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", c.SessionID.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("tool call failed: %s", errorResp.Error)
	}

	var result mcp.CallResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// Tools fetches the tool catalog, used by /help.
func (c *Client) Tools() ([]mcp.Tool, error) {
	resp, err := c.http.Get(c.baseURL + "/mcp/tools")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var response struct {
		Tools []mcp.Tool `json:"tools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	return response.Tools, nil
}
