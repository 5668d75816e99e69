package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"community-app-go/internal/config"
	"community-app-go/pkg/logger"
)

// Client wraps the external text-moderation classifier. The policy is
// fail-closed: transport faults, non-200 responses and decode failures all
// read as a rejection, so content safety wins over availability. A single
// call is made per submission; there are no retries.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	skip    bool
	log     logger.Logger
}

type verdict struct {
	Accepted bool     `json:"accepted"`
	Labels   []string `json:"labels"`
}

func NewClient(cfg config.ModerationConfig, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	if cfg.Skip {
		log.Warn("moderation: skip enabled, all content will be accepted")
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		skip:    cfg.Skip,
		log:     log,
	}
}

// Moderate returns true when the content is acceptable. The underlying fault
// of a fail-closed rejection is logged here since the caller only ever sees
// a rejection.
func (c *Client) Moderate(ctx context.Context, content string) bool {
	if c.skip {
		return true
	}
	if c.baseURL == "" {
		c.log.Error("moderation: gateway not configured, rejecting")
		return false
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		c.log.InternalError("moderation: marshal request failed", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/text/moderate", bytes.NewReader(body))
	if err != nil {
		c.log.InternalError("moderation: build request failed", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.InternalError("moderation: gateway call failed", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.InternalError("moderation: gateway returned non-200", fmt.Errorf("status %d", resp.StatusCode))
		return false
	}

	var result verdict
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.InternalError("moderation: decode verdict failed", err)
		return false
	}

	if !result.Accepted {
		c.log.Warn("moderation: content rejected", "labels", strings.Join(result.Labels, ","))
	}
	return result.Accepted
}
