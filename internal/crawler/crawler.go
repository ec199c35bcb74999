package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// DefaultMaxPages is the page ceiling applied when none is configured.
// The ceiling is the crawl's primary safety invariant: it terminates the
// loop even against a server that always advertises another page.
const DefaultMaxPages = 10

// Endpoint describes one upstream paginated endpoint.
type Endpoint struct {
	Name   string
	URL    string
	Header http.Header
}

// Page is the per-page record of a crawl, kept for every fetch attempt
// including the failed one that ends a crawl.
type Page struct {
	Number int
	URL    string
	Status int
	Body   entity.Value // nil when the fetch or parse failed
	Raw    []byte
	Format Format
	Failed bool
	Error  string

	detected PaginationInfo
}

// Result is a finished crawl: the per-page records plus the combined
// response.
type Result struct {
	Pages          []Page
	Combined       *entity.Object
	ReachedCeiling bool
}

// PageSink receives every page as it is fetched. Implementations own
// naming and layout (the record workflow writes page_NNN.json files).
type PageSink interface {
	WritePage(ctx context.Context, endpoint Endpoint, page Page) error
}

// Crawler drains paginated endpoints sequentially.
type Crawler struct {
	client   *http.Client
	log      zerolog.Logger
	maxPages int
	sink     PageSink
	now      func() time.Time
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithMaxPages overrides the page ceiling. Values below 1 keep the default.
func WithMaxPages(n int) CrawlerOption {
	return func(c *Crawler) {
		if n >= 1 {
			c.maxPages = n
		}
	}
}

// WithSink attaches a per-page sink.
func WithSink(sink PageSink) CrawlerOption {
	return func(c *Crawler) { c.sink = sink }
}

// WithTimeSource overrides the timestamp source for combined responses.
func WithTimeSource(now func() time.Time) CrawlerOption {
	return func(c *Crawler) { c.now = now }
}

// New builds a Crawler around the given HTTP client.
func New(client *http.Client, log zerolog.Logger, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		client:   client,
		log:      log,
		maxPages: DefaultMaxPages,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Drain fetches every page of the endpoint, one at a time, until the
// detected format reports no more pages, a fetch fails, the page ceiling
// is reached, or ctx is canceled. It returns the per-page records and the
// combined response; a partial crawl still yields a valid combined result
// from the pages that did arrive.
func (c *Crawler) Drain(ctx context.Context, ep Endpoint) (*Result, error) {
	result := &Result{}
	nextURL := ep.URL

	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("crawl canceled before page %d: %w", pageNum, err)
		}

		page := c.fetchPage(ctx, ep, pageNum, nextURL)
		result.Pages = append(result.Pages, page)
		c.persist(ctx, ep, page)

		if page.Failed {
			c.log.Warn().Str("endpoint", ep.Name).Int("page", pageNum).
				Str("error", page.Error).Msg("page fetch failed, stopping crawl")
			break
		}
		if !page.detected.HasMore {
			break
		}
		if pageNum >= c.maxPages {
			c.log.Warn().Str("endpoint", ep.Name).Int("pages", pageNum).
				Msg("page ceiling reached, stopping crawl")
			result.ReachedCeiling = true
			break
		}
		next, err := nextRequestURL(nextURL, page.detected)
		if err != nil {
			c.log.Warn().Err(err).Str("endpoint", ep.Name).
				Msg("cannot compute next page URL, stopping crawl")
			break
		}
		nextURL = next
	}

	result.Combined = c.combine(result.Pages)
	return result, nil
}

func (c *Crawler) fetchPage(ctx context.Context, ep Endpoint, number int, pageURL string) Page {
	page := Page{Number: number, URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		page.Failed = true
		page.Error = err.Error()
		return page
	}
	for key, values := range ep.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		page.Failed = true
		page.Error = err.Error()
		return page
	}
	defer resp.Body.Close()

	page.Status = resp.StatusCode
	page.Raw, err = io.ReadAll(resp.Body)
	if err != nil {
		page.Failed = true
		page.Error = err.Error()
		return page
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		page.Failed = true
		page.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return page
	}

	body, err := entity.Decode(page.Raw)
	if err != nil {
		page.Failed = true
		page.Error = fmt.Sprintf("parse body: %s", err)
		return page
	}
	page.Body = body
	page.detected = Detect(body, resp.Header)
	page.Format = page.detected.Format

	c.log.Debug().Str("endpoint", ep.Name).Int("page", number).
		Str("format", string(page.Format)).Bool("hasMore", page.detected.HasMore).
		Msg("fetched page")
	return page
}

func (c *Crawler) persist(ctx context.Context, ep Endpoint, page Page) {
	if c.sink == nil {
		return
	}
	if err := c.sink.WritePage(ctx, ep, page); err != nil {
		c.log.Warn().Err(err).Int("page", page.Number).
			Msg("page sink write failed")
	}
}

// nextRequestURL computes the follow-up request for a page according to
// its detected format.
func nextRequestURL(current string, info PaginationInfo) (string, error) {
	switch info.Format {
	case FormatStandard:
		return setQueryParam(current, "page", strconv.Itoa(info.NextPage))
	case FormatOData, FormatLinkHeader:
		return resolveURL(current, info.NextURL)
	case FormatCursor:
		return setQueryParam(current, "cursor", info.Cursor)
	default:
		return "", fmt.Errorf("format %q has no next-request rule", info.Format)
	}
}

func setQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// resolveURL resolves a possibly-relative next link against the current
// page URL.
func resolveURL(current, next string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("parse current url: %w", err)
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("parse next url: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
