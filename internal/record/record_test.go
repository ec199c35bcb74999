package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/crawler"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

func newTestRecorder(opts ...RecorderOption) *Recorder {
	opts = append([]RecorderOption{WithTimeSource(func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	})}, opts...)
	return NewRecorder(http.DefaultClient, zerolog.Nop(), opts...)
}

func pagedServer(t *testing.T, totalPages int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}
		fmt.Fprintf(w, `{"page":%d,"totalPages":%d,"items":[{"id":"p%d-a"},{"id":"p%d-b"}]}`,
			page, totalPages, page, page)
	}))
}

func readJSON(t *testing.T, path string) *entity.Object {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	obj, err := entity.DecodeObject(data)
	require.NoError(t, err)
	return obj
}

func TestRecord_WritesPagesCombinedAndIndex(t *testing.T) {
	srv := pagedServer(t, 3)
	defer srv.Close()

	outDir := t.TempDir()
	indexes, err := newTestRecorder().Record(context.Background(), outDir,
		[]crawler.Endpoint{{Name: "widgets", URL: srv.URL}})
	require.NoError(t, err)
	require.Len(t, indexes, 1)

	dir := filepath.Join(outDir, "widgets")
	for n := 1; n <= 3; n++ {
		page := readJSON(t, filepath.Join(dir, PageFileName(n)))
		got, _ := page.Get("page")
		assert.Equal(t, entity.Number(n), got)
	}

	combined := readJSON(t, filepath.Join(dir, CombinedFileName))
	items, _ := combined.Get("items")
	assert.Len(t, items.(entity.Array), 6)
	count, _ := combined.Get("combinedItemCount")
	assert.Equal(t, entity.Number(6), count)

	idx := indexes[0]
	assert.Equal(t, "widgets", idx.Endpoint)
	assert.Equal(t, srv.URL, idx.SourceURL)
	assert.Equal(t, 3, idx.PageCount)
	assert.False(t, idx.ReachedCeiling)
	assert.Equal(t, "2024-05-01T12:00:00Z", idx.RecordedAt)
	require.Len(t, idx.Pages, 3)
	assert.Equal(t, "page_001.json", idx.Pages[0].File)
	assert.Equal(t, "standard", idx.Pages[0].Format)

	// The on-disk manifest round-trips.
	data, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	require.NoError(t, err)
	var onDisk Index
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, idx, onDisk)
}

func TestRecord_TruncatesCombined(t *testing.T) {
	srv := pagedServer(t, 3)
	defer srv.Close()

	outDir := t.TempDir()
	_, err := newTestRecorder(WithTruncateLimit(4)).Record(context.Background(), outDir,
		[]crawler.Endpoint{{Name: "widgets", URL: srv.URL}})
	require.NoError(t, err)

	combined := readJSON(t, filepath.Join(outDir, "widgets", CombinedFileName))
	items, _ := combined.Get("items")
	assert.Len(t, items.(entity.Array), 4)
	truncated, _ := combined.Get("_truncated")
	assert.Equal(t, entity.Bool(true), truncated)
	size, _ := combined.Get("_originalSize")
	assert.Equal(t, entity.Number(6), size)
}

func TestRecord_FailedPageStaysInManifestOnly(t *testing.T) {
	var fetches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		if fetches == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"page":%d,"totalPages":5,"items":[{"id":"x"}]}`, fetches)
	}))
	defer srv.Close()

	outDir := t.TempDir()
	indexes, err := newTestRecorder().Record(context.Background(), outDir,
		[]crawler.Endpoint{{Name: "flaky", URL: srv.URL}})
	require.NoError(t, err)

	idx := indexes[0]
	require.Len(t, idx.Pages, 2)
	assert.True(t, idx.Pages[1].Failed)
	assert.Empty(t, idx.Pages[1].File)
	_, statErr := os.Stat(filepath.Join(outDir, "flaky", PageFileName(2)))
	assert.True(t, os.IsNotExist(statErr), "failed pages write no payload file")
}

func TestRecord_MultipleEndpoints(t *testing.T) {
	srv := pagedServer(t, 1)
	defer srv.Close()

	outDir := t.TempDir()
	indexes, err := newTestRecorder().Record(context.Background(), outDir, []crawler.Endpoint{
		{Name: "a", URL: srv.URL},
		{Name: "b", URL: srv.URL},
	})
	require.NoError(t, err)
	require.Len(t, indexes, 2)
	assert.FileExists(t, filepath.Join(outDir, "a", CombinedFileName))
	assert.FileExists(t, filepath.Join(outDir, "b", CombinedFileName))
}
