// Package record drives the capture workflow: drain each configured
// endpoint, keep every page on disk, and distill a combined response
// suitable for seeding the mock store.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/crawler"
)

// File names written per endpoint, next to the page_NNN.json captures.
const (
	CombinedFileName = "combined.json"
	IndexFileName    = "pages.json"
)

// Recorder records endpoints into a directory tree.
type Recorder struct {
	client        *http.Client
	log           zerolog.Logger
	maxPages      int
	truncateLimit int
	now           func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithMaxPages caps pages fetched per endpoint.
func WithMaxPages(n int) RecorderOption {
	return func(r *Recorder) {
		if n >= 1 {
			r.maxPages = n
		}
	}
}

// WithTruncateLimit caps items in combined.json.
func WithTruncateLimit(n int) RecorderOption {
	return func(r *Recorder) {
		if n >= 1 {
			r.truncateLimit = n
		}
	}
}

// WithTimeSource overrides recordedAt stamping.
func WithTimeSource(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder builds a Recorder around the given HTTP client.
func NewRecorder(client *http.Client, log zerolog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		client:        client,
		log:           log,
		maxPages:      crawler.DefaultMaxPages,
		truncateLimit: crawler.DefaultTruncateLimit,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Index is the pages.json manifest of one endpoint's crawl.
type Index struct {
	Endpoint       string      `json:"endpoint"`
	SourceURL      string      `json:"sourceUrl"`
	PageCount      int         `json:"pageCount"`
	ReachedCeiling bool        `json:"reachedCeiling,omitempty"`
	RecordedAt     string      `json:"recordedAt"`
	Pages          []PageEntry `json:"pages"`
}

// PageEntry is one crawl attempt in the manifest, failed fetches included.
type PageEntry struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	Format string `json:"format,omitempty"`
	File   string `json:"file,omitempty"`
	Failed bool   `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Record drains every endpoint into outDir/<endpoint>/ and returns the
// manifests. One endpoint failing does not stop the others; its manifest
// records what happened.
func (r *Recorder) Record(ctx context.Context, outDir string, endpoints []crawler.Endpoint) ([]Index, error) {
	sink := NewDirSink(outDir)
	c := crawler.New(r.client, r.log,
		crawler.WithMaxPages(r.maxPages),
		crawler.WithSink(sink),
		crawler.WithTimeSource(r.now),
	)

	indexes := make([]Index, 0, len(endpoints))
	for _, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			return indexes, fmt.Errorf("recording canceled before %s: %w", ep.Name, err)
		}
		r.log.Info().Str("endpoint", ep.Name).Str("url", ep.URL).Msg("recording endpoint")

		result, err := c.Drain(ctx, ep)
		if err != nil {
			return indexes, fmt.Errorf("draining %s: %w", ep.Name, err)
		}
		idx, err := r.finalize(outDir, ep, result)
		if err != nil {
			return indexes, fmt.Errorf("finalizing %s: %w", ep.Name, err)
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// finalize writes combined.json and pages.json for one drained endpoint.
func (r *Recorder) finalize(outDir string, ep crawler.Endpoint, result *crawler.Result) (Index, error) {
	dir := filepath.Join(outDir, ep.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Index{}, err
	}

	idx := Index{
		Endpoint:       ep.Name,
		SourceURL:      ep.URL,
		PageCount:      len(result.Pages),
		ReachedCeiling: result.ReachedCeiling,
		RecordedAt:     r.now().UTC().Format(time.RFC3339),
	}
	for _, page := range result.Pages {
		entry := PageEntry{
			Number: page.Number,
			URL:    page.URL,
			Status: page.Status,
			Format: string(page.Format),
			Failed: page.Failed,
			Error:  page.Error,
		}
		if !page.Failed {
			entry.File = PageFileName(page.Number)
		}
		idx.Pages = append(idx.Pages, entry)
	}

	if result.Combined != nil {
		combined := crawler.Truncate(result.Combined, r.truncateLimit)
		if err := writeJSON(filepath.Join(dir, CombinedFileName), combined); err != nil {
			return Index{}, err
		}
	}
	if err := writeJSON(filepath.Join(dir, IndexFileName), idx); err != nil {
		return Index{}, err
	}
	return idx, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
