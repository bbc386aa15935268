// Package recordstore is the authenticated client for the structured object
// store that holds Deal, Property, Advance and Loan records. Queries are
// simple "select fields where key = value" statements in the store's query
// language; the client carries a bearer token and never performs the login
// handshake itself.
package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"

	"hudgen/internal/common/config"
	"hudgen/internal/common/logger"
)

type Client struct {
	instanceURL string
	apiVersion  string
	queryLimit  int
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
	catalog     *cache.Cache
	logger      logger.Logger
}

// New builds a Client from configuration. The access token is wrapped in an
// oauth2.TokenSource so a refreshing source can be substituted where the
// hosting environment provides one.
func New(cfg config.RecordStoreConfig, log logger.Logger) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	return NewWithTokenSource(cfg, ts, log)
}

// NewWithTokenSource builds a Client with an explicit token source.
func NewWithTokenSource(cfg config.RecordStoreConfig, ts oauth2.TokenSource, log logger.Logger) *Client {
	timeout := time.Duration(cfg.RequestTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := cfg.QueryLimit
	if limit <= 0 {
		limit = 200
	}
	return &Client{
		instanceURL: cfg.InstanceURL,
		apiVersion:  cfg.APIVersion,
		queryLimit:  limit,
		tokenSource: ts,
		httpClient:  &http.Client{Timeout: timeout},
		// Field catalogs are static for the life of the process.
		catalog: cache.New(cache.NoExpiration, cache.NoExpiration),
		logger:  log.WithFields(map[string]interface{}{"component": "recordstore"}),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := fmt.Sprintf("%s/services/data/%s/%s", c.instanceURL, c.apiVersion, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	tok, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &apiError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// apiError is a non-2xx response from the store, body preserved verbatim.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("store request failed (status %d): %s", e.Status, e.Body)
}
