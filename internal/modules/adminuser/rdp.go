package adminuser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/issa-plus/core/internal/config"
)

// RDPClient mirrors local accounts into terminal-server RDP groups.
type RDPClient interface {
	AddToGroups(ctx context.Context, username string, groups []string) error
	RemoveUser(ctx context.Context, username string) error
}

type httpRDPClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewRDPClient returns nil when no endpoint is configured; callers treat a
// nil client as "integration off".
func NewRDPClient(opts config.RDPOptions) RDPClient {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		return nil
	}
	return &httpRDPClient{
		endpoint: endpoint,
		token:    opts.Token,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpRDPClient) AddToGroups(ctx context.Context, username string, groups []string) error {
	return c.post(ctx, "/groups/members", map[string]interface{}{
		"username": username,
		"groups":   groups,
	})
}

func (c *httpRDPClient) RemoveUser(ctx context.Context, username string) error {
	return c.post(ctx, "/users/remove", map[string]interface{}{
		"username": username,
	})
}

func (c *httpRDPClient) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rdp api %s: status %d", path, resp.StatusCode)
	}
	return nil
}
