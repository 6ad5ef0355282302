// Package fetch retrieves job-posting pages and classifies their source platform.
// It is the only package in the extraction path that performs network I/O.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 15 * time.Second

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 5 << 20

// ChromeUserAgent is a desktop Chrome user agent. Several job boards reject
// requests that identify as bots or send no user agent at all.
const ChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	FinalURL    string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Timeout    bool
	Cause      error
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

// ErrInvalidURL is returned (wrapped) when a URL is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL")

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client
}

// DefaultOptions returns browser-like defaults for fetching job pages.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: ChromeUserAgent,
		Headers:   BrowserHeaders(),
	}
}

// BrowserHeaders returns the Accept headers a desktop browser sends on navigation.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Cache-Control":   "no-cache",
	}
}

// ValidateURL checks that urlStr is an absolute http or https URL with a host.
func ValidateURL(urlStr string) (*url.URL, error) {
	trimmed := strings.TrimSpace(urlStr)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return parsed, nil
}

// Fetcher retrieves the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, urlStr string) (*Result, error)
}

// HTTPFetcher fetches pages with a plain HTTP GET.
type HTTPFetcher struct {
	Options *Options
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	return URL(ctx, urlStr, f.Options)
}

// URL retrieves HTML content from a URL. On a non-2xx status the partial
// result is returned together with an *Error carrying the status code.
// Exceeding the timeout aborts the request and yields an *Error with Timeout set.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = ChromeUserAgent
	}

	if _, err := ValidateURL(urlStr); err != nil {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &Error{URL: urlStr, Message: fmt.Sprintf("timed out after %s", timeout), Timeout: true, Cause: err}
		}
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, &Error{URL: urlStr, Message: fmt.Sprintf("timed out after %s", timeout), Timeout: true, Cause: err}
		}
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// NoiseSelector lists elements that never carry job content.
const NoiseSelector = "nav, footer, header, script, style, noscript, iframe, svg, form, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .cookie-consent, .gdpr-notice, .social-share, .share-buttons, .eeo-statement, .voluntary-disclosure"

// StripNoise removes navigation, scripts, forms and similar chrome from doc.
func StripNoise(doc *goquery.Document) {
	doc.Find(NoiseSelector).Remove()
}

// BodyText returns the whitespace-normalized text of the document body,
// ignoring noise elements. doc itself is not modified.
func BodyText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	if body.Length() == 0 {
		body = doc.Selection.Clone()
	}
	body.Find(NoiseSelector).Remove()
	return CleanWhitespace(BlockText(body))
}

// blockTags end a line when rendering element text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "tr": true, "table": true, "dd": true, "dt": true,
	"header": true, "blockquote": true, "pre": true,
}

// BlockText returns the text of s with line breaks after block elements,
// skipping script and style content.
func BlockText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			name := goquery.NodeName(c)
			switch name {
			case "#text":
				b.WriteString(c.Text())
			case "script", "style", "noscript", "#comment":
			default:
				if name == "li" {
					b.WriteString("\n")
				}
				walk(c)
				if blockTags[name] {
					b.WriteString("\n")
				}
			}
		})
	}
	walk(s)
	return b.String()
}

// CleanWhitespace trims every line, drops blank lines and collapses runs of
// spaces within a line.
func CleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
