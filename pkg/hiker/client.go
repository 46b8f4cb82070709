// Package hiker implements the upstream HikerAPI HTTP client: authenticated
// GET requests, error classification and raw payload decoding. It performs
// no retries; retry policy belongs to the enrichment layer.
package hiker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"igstats/pkg/config"
	"igstats/pkg/errors"
	"igstats/pkg/logger"
	"igstats/pkg/ratelimit"
)

// Client issues authenticated requests against the upstream API.
type Client struct {
	httpClient  *http.Client
	assetClient *http.Client
	baseURL     string
	accessKey   string
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

// NewClient creates an upstream client. Metadata calls use the request
// timeout; binary asset downloads get the longer asset timeout.
func NewClient(cfg *config.APIConfig, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 25 * time.Second
	}
	assetTimeout := cfg.AssetTimeout
	if assetTimeout <= 0 {
		assetTimeout = 60 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		assetClient: &http.Client{Timeout: assetTimeout},
		baseURL:     trimTrailingSlash(cfg.BaseURL),
		accessKey:   cfg.AccessKey,
		limiter:     limiter,
		logger:      log,
	}
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Enabled reports whether an access key is configured.
func (c *Client) Enabled() bool {
	return c.accessKey != ""
}

// GetJSON performs an authenticated GET against an API path and decodes
// the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, target interface{}) error {
	if c.accessKey == "" {
		return errors.New(errors.ErrorTypeCredentialMissing, "no upstream access key is configured")
	}

	merged := url.Values{}
	for key, values := range params {
		for _, value := range values {
			if value != "" {
				merged.Add(key, value)
			}
		}
	}
	merged.Set("access_key", c.accessKey)
	requestURL := c.baseURL + path + "?" + merged.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.New(errors.ErrorTypeTransport, "rate limit wait interrupted: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.New(errors.ErrorTypeTransport, "failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.DebugWithFields("sending upstream request", map[string]interface{}{
		"path": path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("upstream request failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return errors.New(errors.ErrorTypeTransport, "upstream request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.ErrorTypeTransport, "failed to read response body: %v", err)
	}

	c.logger.DebugWithFields("upstream request completed", map[string]interface{}{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode != http.StatusOK {
		detail := extractErrorDetail(body)
		if detail != "" {
			return errors.NewHTTP(resp.StatusCode, "upstream HTTP %d (%s)", resp.StatusCode, detail)
		}
		return errors.NewHTTP(resp.StatusCode, "upstream HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.logger.ErrorWithFields("failed to parse upstream response", map[string]interface{}{
			"path":         path,
			"error":        err.Error(),
			"body_preview": bodyPreview(body),
		})
		if json.Valid(body) {
			return errors.New(errors.ErrorTypeUnexpectedShape, "unexpected response format for %s: %v", path, err)
		}
		return errors.New(errors.ErrorTypeDecode, "upstream returned non-JSON response: %v", err)
	}
	return nil
}

// DownloadAsset fetches a binary asset (image, video, audio) from a direct
// URL. The caller owns the returned body.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeTransport, "failed to create request: %v", err)
	}

	resp, err := c.assetClient.Do(req)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeTransport, "asset download failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.NewHTTP(resp.StatusCode, "asset download HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// extractErrorDetail pulls a human-readable detail out of an error body:
// the JSON detail/message fields when present, else a short body preview.
func extractErrorDetail(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
		return ""
	}
	return bodyPreview(body)
}

func bodyPreview(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
