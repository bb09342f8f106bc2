// Package client is the HTTP source adapter for the station API. Every
// call is a single best-effort GET; retries belong to the acquisition
// loop, not here.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wim-pipeline/models"

	"go.uber.org/zap"
)

// StatusError tags a non-2xx response so callers can tell it apart from
// a transport failure.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("station %s returned status %d", e.Endpoint, e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// fetch issues one GET against the named endpoint and decodes the JSON
// body into dest.
func (c *Client) fetch(ctx context.Context, endpoint string, dest any) error {
	url := c.baseURL + "/" + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", endpoint, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// A well-formed body with a wrong-typed field is a malformed
		// record, not a transport problem.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &models.MalformedRecordError{Field: typeErr.Field}
		}
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// FetchSnapshot retrieves the latest measurement snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := c.fetch(ctx, "data", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

// Healthy reports whether the station answers its liveness check with
// {"status":"OK"}. Any failure, bad status or other payload means "not
// yet healthy" and is only logged.
func (c *Client) Healthy(ctx context.Context) bool {
	var h healthResponse
	if err := c.fetch(ctx, "health", &h); err != nil {
		c.log.Debug("health probe failed", zap.Error(err))
		return false
	}
	return h.Status == "OK"
}
