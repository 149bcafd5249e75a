// Package anki talks to a running Anki instance through the AnkiConnect add-on.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/ankigen/internal/model"
	"github.com/ppiankov/ankigen/internal/util"
	"go.uber.org/zap"
)

const apiVersion = 6

// APIError is an error reported by AnkiConnect in the response body
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Anki returned error for %s: %s", e.Action, e.Message)
}

// Client is an AnkiConnect client
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client from the Anki section of the configuration
func NewClient(cfg model.AnkiConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = model.DefaultAnkiURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
			},
		},
		logger: logger,
	}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// EnsureDeck creates deck if it does not exist yet
func (c *Client) EnsureDeck(ctx context.Context, deck string) error {
	_, err := c.invoke(ctx, "createDeck", map[string]string{"deck": deck})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "exists") {
			c.logger.Debug("deck already exists", zap.String("deck", deck))
			return nil
		}
		return fmt.Errorf("failed to ensure deck %s exists: %w", deck, err)
	}
	return nil
}

// AddNotes adds notes and returns one id per note; a nil id means Anki
// rejected that note as a duplicate
func (c *Client) AddNotes(ctx context.Context, notes []Note) ([]*int64, error) {
	if len(notes) == 0 {
		return []*int64{}, nil
	}

	raw, err := c.invoke(ctx, "addNotes", map[string]any{"notes": notes})
	if err != nil {
		return nil, fmt.Errorf("failed to add notes via AnkiConnect: %w", err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("missing result payload from AnkiConnect addNotes response")
	}

	var ids []*int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse addNotes result: %w", err)
	}
	return ids, nil
}

// Version returns the AnkiConnect API version
func (c *Client) Version(ctx context.Context) (int, error) {
	raw, err := c.invoke(ctx, "version", nil)
	if err != nil {
		return 0, err
	}

	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("failed to parse version result: %w", err)
	}
	return v, nil
}

func (c *Client) invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Action: action, Version: apiVersion, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach AnkiConnect: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("AnkiConnect HTTP error %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse AnkiConnect response body: %w", err)
	}

	if resp.Error != nil {
		return nil, &APIError{Action: action, Message: *resp.Error}
	}

	return resp.Result, nil
}
