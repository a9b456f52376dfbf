// Package imagestore is the HTTP client for the image collaborator: a
// Cloudinary-style admin API that owns the actual image assets. The editor
// only ever needs four operations — existence checks, renames (temp to
// permanent promotion), pulling a third-party photo reference into owned
// storage, and cache warming.
//
// All requests share one rate limiter so promotion and precache traffic
// together stay under the upstream limit.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to the image store admin API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient constructs a Client for the API at baseURL. requestsPerSecond
// bounds outbound request rate; pass 0 to disable limiting.
func NewClient(baseURL, apiKey string, requestsPerSecond float64) *Client {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
	}
}

// UploadResult describes an asset created by UploadFromRemote.
type UploadResult struct {
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int64  `json:"bytes"`
}

// CheckExists reports whether an asset with the given public ID exists.
func (c *Client) CheckExists(ctx context.Context, publicID string) (bool, error) {
	resp, err := c.do(ctx, http.MethodHead, "/resources/"+url.PathEscape(publicID), nil)
	if err != nil {
		return false, fmt.Errorf("imagestore.Client.CheckExists: %w", err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("imagestore.Client.CheckExists: unexpected status %d", resp.StatusCode)
}

// Rename moves an asset from one public ID to another. Used for temp-to-
// permanent namespace promotion at save time.
func (c *Client) Rename(ctx context.Context, fromID, toID string) error {
	body := map[string]string{"from_public_id": fromID, "to_public_id": toID}
	resp, err := c.do(ctx, http.MethodPost, "/rename", body)
	if err != nil {
		return fmt.Errorf("imagestore.Client.Rename: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("imagestore.Client.Rename: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// UploadFromRemote pulls a third-party photo reference into owned storage,
// resized to at most maxWidth pixels wide.
func (c *Client) UploadFromRemote(ctx context.Context, reference string, maxWidth int) (UploadResult, error) {
	body := map[string]any{"reference": reference, "max_width": maxWidth}
	resp, err := c.do(ctx, http.MethodPost, "/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("imagestore.Client.UploadFromRemote: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return UploadResult{}, fmt.Errorf("imagestore.Client.UploadFromRemote: unexpected status %d", resp.StatusCode)
	}
	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("imagestore.Client.UploadFromRemote: decode: %w", err)
	}
	return result, nil
}

// Cache asks the store to warm its delivery cache for a chunk of public IDs.
// Satisfies images.Cacher.
func (c *Client) Cache(ctx context.Context, ids []string) error {
	resp, err := c.do(ctx, http.MethodPost, "/precache", map[string]any{"public_ids": ids})
	if err != nil {
		return fmt.Errorf("imagestore.Client.Cache: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("imagestore.Client.Cache: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// do issues one JSON request, honoring the shared rate limiter.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.http.Do(req)
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
