// Package fetch provides the HTTP GET and redirect-resolution primitives
// shared by link classification, feed archiving and the gist client.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/logging"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; zktools/1.0)"

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string // requested URL
	FinalURL    string // URL after following redirects
	Body        []byte
	ContentType string
	StatusCode  int
	Header      http.Header
}

// HTML returns the body as a string.
func (r *Result) HTML() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	UseBrowser bool // re-render challenge pages in headless Chrome
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client performs GET requests with a shared http.Client.
type Client struct {
	http    *http.Client
	options *Options
	logger  *zap.Logger
}

// NewClient creates a client. A nil opts uses DefaultOptions.
func NewClient(opts *Options, logger *zap.Logger) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		options: opts,
		logger:  logging.OrNop(logger),
	}
}

// Get retrieves a URL. A non-200 response returns both the result and an *Error.
func (c *Client) Get(ctx context.Context, urlStr string) (*Result, error) {
	result, err := c.do(ctx, urlStr)
	if err == nil || result == nil || !c.options.UseBrowser || !ShouldUseBrowser(result) {
		return result, err
	}

	c.logger.Info("rendering challenged page in browser",
		zap.String("url", urlStr), zap.Int("status", result.StatusCode))
	html, berr := WithBrowser(ctx, urlStr, c.options.Timeout, c.logger)
	if berr != nil {
		c.logger.Warn("browser rendering failed", zap.String("url", urlStr), zap.Error(berr))
		return result, err
	}
	return &Result{
		URL:         urlStr,
		FinalURL:    urlStr,
		Body:        []byte(html),
		ContentType: "text/html",
		StatusCode:  http.StatusOK,
	}, nil
}

// Resolve follows the redirect chain of urlStr and returns the final URL.
func (c *Client) Resolve(ctx context.Context, urlStr string) (string, error) {
	result, err := c.do(ctx, urlStr)
	if result != nil && result.FinalURL != "" && result.FinalURL != urlStr {
		// a challenge page at the destination still tells us where we landed
		return result.FinalURL, nil
	}
	if err != nil {
		return "", err
	}
	return result.FinalURL, nil
}

func (c *Client) do(ctx context.Context, urlStr string) (*Result, error) {
	// Validate URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	// Create request with context
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	// Set headers
	req.Header.Set("User-Agent", c.options.UserAgent)
	for key, value := range c.options.Headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("GET", zap.String("url", urlStr))

	// Execute request
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// Read response body
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		FinalURL:    resp.Request.URL.String(),
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
	}

	// Check for non-success status
	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// Download streams the body of urlStr into dst and returns the bytes written.
// Unlike Get it never buffers the whole response, which suits media files.
func (c *Client) Download(ctx context.Context, urlStr string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return 0, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.options.UserAgent)
	for key, value := range c.options.Headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("download", zap.String("url", urlStr))

	// media downloads outlive the page timeout; ctx bounds them instead
	client := *c.http
	client.Timeout = 0
	resp, err := client.Do(req)
	if err != nil {
		return 0, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return n, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	return n, nil
}

// URL retrieves content from a URL with a one-off client.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	return NewClient(opts, nil).Get(ctx, urlStr)
}
