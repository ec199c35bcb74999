package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/crawler"
)

// DirSink persists every fetched page under root/<endpoint>/page_NNN.json
// as it arrives, so a crawl interrupted mid-way still leaves the pages it
// got on disk.
type DirSink struct {
	root string
}

// NewDirSink creates the sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{root: dir}
}

// WritePage stores one page. Failed pages carry no payload and are
// skipped; their failure stays in the crawl index.
func (d *DirSink) WritePage(_ context.Context, ep crawler.Endpoint, page crawler.Page) error {
	if page.Failed || len(page.Raw) == 0 {
		return nil
	}
	dir := filepath.Join(d.root, ep.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating endpoint dir: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, page.Raw, "", "  "); err != nil {
		// Keep the payload verbatim when it does not re-indent.
		pretty.Reset()
		pretty.Write(page.Raw)
	}
	pretty.WriteByte('\n')

	return os.WriteFile(filepath.Join(dir, PageFileName(page.Number)), pretty.Bytes(), 0o644)
}

// PageFileName formats the on-disk name of a recorded page.
func PageFileName(number int) string {
	return fmt.Sprintf("page_%03d.json", number)
}
