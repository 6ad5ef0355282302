// Package fetch - browser.go renders JavaScript-heavy job pages in headless Chrome.
package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultBrowserTimeout bounds a full headless render.
const DefaultBrowserTimeout = 30 * time.Second

// AllocatorOptions returns the exec allocator flags used for every headless session.
func AllocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(ChromeUserAgent),
	)
}

// NewBrowserContext starts a headless Chrome allocator and tab. The returned
// cancel func releases both.
func NewBrowserContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, AllocatorOptions()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	return timeoutCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	browserCtx, cancel := NewBrowserContext(ctx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to populate the posting.
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return html, nil
}

// BrowserFetcher renders pages with headless Chrome instead of a plain GET.
type BrowserFetcher struct {
	Timeout time.Duration
	Verbose bool
}

// Fetch implements Fetcher. A render that exceeds the timeout is reported as
// an *Error with Timeout set.
func (b *BrowserFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if _, err := ValidateURL(urlStr); err != nil {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	html, err := WithBrowser(ctx, urlStr, b.Timeout, b.Verbose)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser render failed", Timeout: isTimeout(ctx, err), Cause: err}
	}
	return &Result{URL: urlStr, FinalURL: urlStr, HTML: html, ContentType: "text/html", StatusCode: 200}, nil
}
