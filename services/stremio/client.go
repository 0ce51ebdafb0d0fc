package stremio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"canonstream/models"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultCacheTTL = 600 * time.Second
	cacheSize       = 256
	retryDelay      = 500 * time.Millisecond
)

// upstreamError marks failures the addon itself produced (non-2xx status,
// malformed payload). These are never retried.
type upstreamError struct {
	msg string
}

func (e *upstreamError) Error() string { return e.msg }

type streamsResponse struct {
	// Pointer so a response without a streams field is distinguishable from
	// an empty list.
	Streams *[]models.RawStream `json:"streams"`
}

// Client fetches raw stream lists from Stremio addons. Responses are cached
// by request URL with a TTL so repeated lookups for the same title do not
// hammer upstreams.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	cache      *expirable.LRU[string, []models.RawStream]
}

// NewClient constructs a client with the given per-request timeout, number
// of transient-error retries, and cache TTL. Zero values fall back to
// 30s / 0 retries / 600s.
func NewClient(timeout time.Duration, retries int, cacheTTL time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		retries:    retries,
		cache:      expirable.NewLRU[string, []models.RawStream](cacheSize, nil, cacheTTL),
	}
}

// FetchStreams retrieves the raw stream list for a media id from one addon.
// baseURL may include a trailing slash or /manifest.json; both are stripped.
func (c *Client) FetchStreams(ctx context.Context, baseURL, mediaType, id string) ([]models.RawStream, error) {
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/manifest.json")
	baseURL = strings.TrimSuffix(baseURL, "/")
	endpoint := fmt.Sprintf("%s/stream/%s/%s.json", baseURL, mediaType, url.PathEscape(id))

	if cached, ok := c.cache.Get(endpoint); ok {
		return cached, nil
	}

	var streams []models.RawStream
	err := retry.Do(
		func() error {
			fetched, err := c.fetchOnce(ctx, endpoint)
			if err != nil {
				return err
			}
			streams = fetched
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.retries)+1),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	if err != nil {
		return nil, err
	}

	c.cache.Add(endpoint, streams)
	return streams, nil
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) ([]models.RawStream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	addBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("request to %s timed out after %s: %w", endpoint, c.timeout, context.DeadlineExceeded)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &upstreamError{fmt.Sprintf("addon %s returned %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var payload streamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &upstreamError{fmt.Sprintf("decode addon response from %s: %v", endpoint, err)}
	}
	if payload.Streams == nil {
		return nil, &upstreamError{fmt.Sprintf("addon response from %s has no streams field", endpoint)}
	}
	return *payload.Streams, nil
}

// isTransient gates retries: only transport-level failures are worth another
// attempt, never upstream-authored errors, cancellation, or timeouts.
func isTransient(err error) bool {
	var upstream *upstreamError
	if errors.As(err, &upstream) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// TestConnection verifies the addon endpoint is reachable by fetching its
// manifest.
func (c *Client) TestConnection(baseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/manifest.json")
	endpoint := fmt.Sprintf("%s/manifest.json", strings.TrimSuffix(baseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	addBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to addon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("addon manifest returned status %d", resp.StatusCode)
	}
	return nil
}

func addBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
}
