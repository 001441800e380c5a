// Package fetch - browser.go provides headless browser rendering for pages
// that answer plain HTTP clients with a bot challenge.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/zkfm/zktools/internal/logging"
)

var challengeMarkers = [][]byte{
	[]byte("Just a moment..."),
	[]byte("cf-browser-verification"),
	[]byte("challenge-platform"),
}

// ShouldUseBrowser returns true if the response looks like a Cloudflare style
// challenge ("Please Wait... | Cloudflare") rather than the real page.
func ShouldUseBrowser(result *Result) bool {
	if result == nil {
		return false
	}
	if result.StatusCode != http.StatusForbidden && result.StatusCode != http.StatusServiceUnavailable {
		return false
	}
	if result.Header != nil && result.Header.Get("Cf-Mitigated") == "challenge" {
		return true
	}
	for _, marker := range challengeMarkers {
		if bytes.Contains(result.Body, marker) {
			return true
		}
	}
	return result.StatusCode == http.StatusForbidden
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	logger = logging.OrNop(logger)
	logger.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// challenge pages redirect to the real document after a few seconds
		chromedp.Sleep(5*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered HTML", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}
