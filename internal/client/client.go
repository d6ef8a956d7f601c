// Package client talks to the game backend API. It is the transport
// collaborator of the sequencer: one dispatched action per call, action
// failure surfaces as an error and never as an ActionResult.
package client

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

	"github.com/cyue/lantern/internal/types"
)

// APIError represents a non-2xx response from the game API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" && e.Message != "" {
		return fmt.Sprintf("game api error: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("game api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("game api error (%d)", e.Status)
}

type apiErrorPayload struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// Client talks to the game backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New constructs a client against the given base URL with a bearer token.
func New(baseURL, token string) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: normalized,
		token:   token,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// NormalizeBaseURL normalizes a server base URL and ensures it has a scheme.
func NormalizeBaseURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("server url cannot be empty")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	// url.Parse reads "localhost:8000" as scheme "localhost", so an
	// allowlist is the only reliable scheme check.
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("server url must include scheme (http:// or https://)")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("server url must include a host")
	}
	return strings.TrimRight(value, "/"), nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token and adopts it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	req := loginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return "", err
	}
	c.token = resp.AccessToken
	return resp.AccessToken, nil
}

// SaveSlots lists the three save slots.
func (c *Client) SaveSlots(ctx context.Context) ([]types.SaveSlot, error) {
	var slots []types.SaveSlot
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/game/saves", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// NewGame creates a character in an empty slot and returns the opening
// result.
func (c *Client) NewGame(ctx context.Context, slot int, req types.NewGameRequest) (*types.ActionResult, error) {
	var result types.ActionResult
	path := fmt.Sprintf("/api/v1/game/saves/%d/new", slot)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Load resumes the save in a slot: the current scene's narrative and
// available actions.
func (c *Client) Load(ctx context.Context, slot int) (*types.ActionResult, error) {
	var result types.ActionResult
	path := fmt.Sprintf("/api/v1/game/saves/%d", slot)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSave removes the save in a slot.
func (c *Client) DeleteSave(ctx context.Context, slot int) error {
	path := fmt.Sprintf("/api/v1/game/saves/%d", slot)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// Dispatch performs one game action against a slot. Exactly one dispatch
// may be outstanding at a time; the caller enforces that.
func (c *Client) Dispatch(ctx context.Context, slot int, action types.ActionRequest) (*types.ActionResult, error) {
	var result types.ActionResult
	path := fmt.Sprintf("/api/v1/game/saves/%d/action", slot)
	if err := c.doJSON(ctx, http.MethodPost, path, action, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// State fetches the authoritative full snapshot for a slot. Used on
// session start and as the reconciler's inventory-refetch fallback.
func (c *Client) State(ctx context.Context, slot int) (*types.GameState, error) {
	var state types.GameState
	path := fmt.Sprintf("/api/v1/game/saves/%d/state", slot)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload apiErrorPayload
		if err := json.Unmarshal(respData, &payload); err == nil {
			apiErr.Code = payload.Error
			apiErr.Message = payload.Message
			if apiErr.Message == "" {
				apiErr.Message = payload.Detail
			}
		} else {
			apiErr.Message = strings.TrimSpace(string(respData))
		}
		return apiErr
	}

	if respBody == nil || len(respData) == 0 {
		return nil
	}
	return json.Unmarshal(respData, respBody)
}
