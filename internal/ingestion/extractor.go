// Package ingestion turns a job posting URL (or already-loaded HTML) into a
// normalized JobPosting. Every outcome is a value: a posting, possibly
// partial, or an *ExtractionError.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-assistant/internal/extraction"
	"github.com/jonathan/job-assistant/internal/fetch"
	"github.com/jonathan/job-assistant/internal/observability"
	"github.com/jonathan/job-assistant/internal/skills"
	"github.com/jonathan/job-assistant/internal/types"
)

// DefaultConcurrency bounds ExtractMany when the caller passes no limit.
const DefaultConcurrency = 4

// Options configures an Extractor.
type Options struct {
	// Fetcher retrieves the static page. Defaults to an HTTPFetcher with
	// browser-like headers and Timeout.
	Fetcher fetch.Fetcher
	// Browser, when set, re-renders pages whose static HTML carried no
	// title or company.
	Browser fetch.Fetcher
	// Timeout bounds the static fetch. Defaults to fetch.DefaultTimeout.
	Timeout time.Duration
	Verbose bool
	// Now is the clock used for ExtractedAt.
	Now func() time.Time
}

// Extractor runs the fetch, detect and extract pipeline.
type Extractor struct {
	fetcher fetch.Fetcher
	browser fetch.Fetcher
	verbose bool
	now     func() time.Time
}

// New creates an Extractor from opts. A nil opts uses the defaults.
func New(opts *Options) *Extractor {
	if opts == nil {
		opts = &Options{}
	}
	e := &Extractor{
		fetcher: opts.Fetcher,
		browser: opts.Browser,
		verbose: opts.Verbose,
		now:     opts.Now,
	}
	if e.fetcher == nil {
		fetchOpts := fetch.DefaultOptions()
		if opts.Timeout > 0 {
			fetchOpts.Timeout = opts.Timeout
		}
		e.fetcher = &fetch.HTTPFetcher{Options: fetchOpts}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// ExtractFromURL fetches urlStr and extracts a posting from it. A posting
// with a title or company is a success even when other fields are empty.
func (e *Extractor) ExtractFromURL(ctx context.Context, urlStr string) (job *types.JobPosting, err error) {
	urlStr = strings.TrimSpace(urlStr)
	start := time.Now()
	platform := fetch.DetectPlatform(urlStr)
	defer func() { e.observe(platform, start, job, err) }()
	defer e.recoverPanic(urlStr, &job, &err)

	if _, verr := fetch.ValidateURL(urlStr); verr != nil {
		return nil, &ExtractionError{Kind: KindInvalidURL, URL: urlStr, Cause: verr}
	}

	if e.verbose {
		log.Printf("[VERBOSE] Fetching %s (platform: %s)", urlStr, platform)
	}
	result, ferr := e.fetcher.Fetch(ctx, urlStr)
	if ferr != nil {
		return nil, classifyFetchError(urlStr, ferr)
	}

	posting, perr := e.parse(urlStr, result.HTML, platform)
	if perr != nil {
		return nil, perr
	}

	if !posting.HasJobData() && e.browser != nil {
		if e.verbose {
			log.Printf("[VERBOSE] No title or company in static HTML, rendering %s in browser", urlStr)
		}
		rendered, berr := e.browser.Fetch(ctx, urlStr)
		if berr != nil {
			log.Printf("[VERBOSE] Browser render failed for %s: %v", urlStr, berr)
		} else if retry, rerr := e.parse(urlStr, rendered.HTML, platform); rerr == nil {
			posting = retry
		}
	}

	if !posting.HasJobData() {
		return nil, &ExtractionError{Kind: KindNoJobDataFound, URL: urlStr}
	}
	return e.finish(posting, urlStr, platform), nil
}

// ExtractFromHTML extracts a posting from HTML the caller already has, such
// as a page rendered in the user's own browser. No network I/O happens.
func (e *Extractor) ExtractFromHTML(urlStr, html string) (job *types.JobPosting, err error) {
	urlStr = strings.TrimSpace(urlStr)
	start := time.Now()
	platform := fetch.DetectPlatform(urlStr)
	defer func() { e.observe(platform, start, job, err) }()
	defer e.recoverPanic(urlStr, &job, &err)

	if _, verr := fetch.ValidateURL(urlStr); verr != nil {
		return nil, &ExtractionError{Kind: KindInvalidURL, URL: urlStr, Cause: verr}
	}

	posting, perr := e.parse(urlStr, html, platform)
	if perr != nil {
		return nil, perr
	}
	if !posting.HasJobData() {
		return nil, &ExtractionError{Kind: KindNoJobDataFound, URL: urlStr}
	}
	return e.finish(posting, urlStr, platform), nil
}

// Outcome is the result of one URL in ExtractMany.
type Outcome struct {
	URL string
	Job *types.JobPosting
	Err error
}

// ExtractMany extracts every URL with at most limit fetches in flight.
// Outcomes are returned in input order; one failure never cancels the rest.
func (e *Extractor) ExtractMany(ctx context.Context, urls []string, limit int) []Outcome {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	outcomes := make([]Outcome, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			job, err := e.ExtractFromURL(gCtx, u)
			outcomes[i] = Outcome{URL: u, Job: job, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (e *Extractor) parse(urlStr, html string, platform fetch.Platform) (*types.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{Kind: KindNoJobDataFound, URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}
	res := extraction.Run(doc, platform)
	if e.verbose {
		log.Printf("[VERBOSE] Field sources: %v", res.Sources)
	}
	return res.Posting, nil
}

func (e *Extractor) finish(job *types.JobPosting, urlStr string, platform fetch.Platform) *types.JobPosting {
	job.Skills = skills.Match(job.Description)
	job.URL = urlStr
	job.Platform = string(platform)
	job.ExtractedAt = e.now().UTC()
	job.Normalize()
	if e.verbose && job.IsPartial() {
		log.Printf("[VERBOSE] Partial extraction for %s: description or skills empty", urlStr)
	}
	return job
}

func (e *Extractor) observe(platform fetch.Platform, start time.Time, job *types.JobPosting, err error) {
	outcome := "success"
	switch {
	case err != nil:
		outcome = string(KindOf(err))
	case job.IsPartial():
		outcome = "partial"
	}
	observability.ExtractionsTotal.WithLabelValues(string(platform), outcome).Inc()
	observability.ExtractionDuration.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())
}

func (e *Extractor) recoverPanic(urlStr string, job **types.JobPosting, err *error) {
	if r := recover(); r != nil {
		log.Printf("[VERBOSE] Recovered from panic extracting %s: %v", urlStr, r)
		*job = nil
		*err = &ExtractionError{Kind: KindNoJobDataFound, URL: urlStr, Cause: fmt.Errorf("panic: %v", r)}
	}
}

// classifyFetchError maps a fetch failure onto an extraction error kind.
func classifyFetchError(urlStr string, err error) error {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		switch {
		case errors.Is(err, fetch.ErrInvalidURL):
			return &ExtractionError{Kind: KindInvalidURL, URL: urlStr, Cause: err}
		case fetchErr.Timeout:
			return &ExtractionError{Kind: KindFetchTimeout, URL: urlStr, Cause: err}
		case fetchErr.StatusCode != 0:
			return &ExtractionError{Kind: KindFetchFailed, URL: urlStr, StatusCode: fetchErr.StatusCode}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExtractionError{Kind: KindFetchTimeout, URL: urlStr, Cause: err}
	}
	return &ExtractionError{Kind: KindFetchFailed, URL: urlStr, Cause: err}
}
