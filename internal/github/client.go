// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultOwner is the repository owner queried when none is configured.
	DefaultOwner = "neovim"
	// DefaultRepo is the repository queried when none is configured.
	DefaultRepo = "neovim"

	// APIVersion is sent as X-GitHub-Api-Version on every request.
	APIVersion = "2022-11-28"
	// MediaType is sent as Accept on every request, downloads included.
	MediaType = "application/vnd.github+json"

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	defaultRetryBackoff = 500 * time.Millisecond
)

// ErrReleaseNotFound is returned when the requested release does not exist.
var ErrReleaseNotFound = errors.New("release not found")

type (
	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}

	// StatusError is returned for unexpected HTTP status codes.
	StatusError struct {
		Op         string // "fetching latest release", "downloading asset ..."
		StatusCode int
	}

	// Client queries the GitHub Releases API for one repository.
	Client struct {
		httpClient *http.Client
		owner      string
		repo       string
		baseURL    string // API base URL, overridable for tests
		token      string // optional token for authenticated requests
		userAgent  string
		attempts   int
		backoff    time.Duration
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the GitHub API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		if base != "" {
			g.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithToken sets a GitHub personal access token for authenticated requests.
// Authenticated requests have a higher rate limit (5000/hour vs 60/hour).
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithRepo overrides the default repository owner and name.
func WithRepo(owner, repo string) ClientOption {
	return func(g *Client) {
		if owner != "" {
			g.owner = owner
		}
		if repo != "" {
			g.repo = repo
		}
	}
}

// WithRetry enables retrying transient failures (429, 502, 503, 504 and
// transport errors). attempts counts the first try; base is the first backoff.
func WithRetry(attempts int, base time.Duration) ClientOption {
	return func(g *Client) {
		if attempts > 0 {
			g.attempts = attempts
		}
		if base > 0 {
			g.backoff = base
		}
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *log.Logger) ClientOption {
	return func(g *Client) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewClient creates a Client with sensible defaults.
// Defaults: owner/repo="neovim/neovim", baseURL="https://api.github.com",
// userAgent="nvim-latest/dev", a single attempt per request.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		owner:      DefaultOwner,
		repo:       DefaultRepo,
		baseURL:    DefaultBaseURL,
		userAgent:  "nvim-latest/dev",
		attempts:   1,
		backoff:    defaultRetryBackoff,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repository returns "owner/repo".
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// LatestRelease fetches the most recent published, non-prerelease release.
func (c *Client) LatestRelease(ctx context.Context) (*Release, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)
	return c.fetchRelease(ctx, reqURL, "fetching latest release")
}

// ReleaseByTag fetches a single release by its Git tag (e.g., "v0.11.0").
// Returns ErrReleaseNotFound if the tag does not correspond to a release.
func (c *Client) ReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s",
		c.baseURL, c.owner, c.repo, url.PathEscape(tag))
	return c.fetchRelease(ctx, reqURL, "fetching release "+tag)
}

// DownloadAsset starts downloading the file at assetURL and returns the
// streaming body together with the advertised content length (-1 when
// unknown). The caller must close the returned ReadCloser.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (io.ReadCloser, int64, error) {
	op := "downloading asset " + redactURL(assetURL)

	resp, err := c.get(ctx, assetURL)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, 0, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}

	return resp.Body, resp.ContentLength, nil
}

func (c *Client) fetchRelease(ctx context.Context, reqURL, op string) (*Release, error) {
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrReleaseNotFound
	}

	if resp.StatusCode != http.StatusOK {
		if rlErr := checkRateLimit(resp); rlErr != nil {
			return nil, rlErr
		}
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode}
	}

	var gr githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}

	c.logger.Debug("release fetched", "repo", c.Repository(), "tag", gr.TagName, "assets", len(gr.Assets))

	r := toRelease(gr)
	return &r, nil
}

// get performs a GET request, retrying transient failures when the client
// was configured with more than one attempt. The returned response always has
// an open body that the caller must close.
func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	var resp *http.Response

	err := retryWithBackoff(ctx, c.attempts, c.backoff, func(attempt int) (bool, error) {
		if attempt > 0 {
			c.logger.Debug("retrying request", "url", redactURL(reqURL), "attempt", attempt+1)
		}

		r, err := c.doRequest(ctx, http.MethodGet, reqURL)
		if err != nil {
			return ctx.Err() == nil, err
		}

		if isRetryableStatus(r.StatusCode) && attempt+1 < c.attempts {
			if rlErr := checkRateLimit(r); rlErr != nil {
				// Waiting out an exhausted quota takes far longer than any backoff.
				resp = r
				return false, nil
			}
			_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, 4<<10))
			_ = r.Body.Close()
			return true, fmt.Errorf("transient status %d", r.StatusCode)
		}

		resp = r
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// doRequest creates and executes an HTTP request with common GitHub API headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", MediaType)
	req.Header.Set("X-GitHub-Api-Version", APIVersion)
	req.Header.Set("User-Agent", c.userAgent)

	// The token must not follow a download redirect to a third-party CDN.
	if c.token != "" && isGitHubHost(req.URL, c.baseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("http request", "method", method, "url", redactURL(reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	c.logger.Debug("http response", "status", resp.StatusCode, "url", redactURL(reqURL))

	return resp, nil
}

// checkRateLimit inspects the X-RateLimit-* response headers and returns a
// RateLimitError when the remaining quota is zero.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil {
		return nil //nolint:nilerr // Non-numeric header is non-fatal.
	}

	if rem > 0 {
		return nil
	}

	// Malformed companion headers default to zero.
	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// isGitHubHost reports whether reqURL targets a known GitHub host, so the auth
// token can be safely attached. It matches the configured API base URL host and,
// when the base is api.github.com, also trusts github.com for asset downloads.
func isGitHubHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if strings.EqualFold(reqURL.Host, base.Host) {
		return true
	}
	if strings.EqualFold(base.Host, "api.github.com") && strings.EqualFold(reqURL.Host, "github.com") {
		return true
	}
	return false
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages and logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
