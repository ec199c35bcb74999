package crawler

import (
	"net/http"
	"strings"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// Format names a detected pagination convention.
type Format string

// Pagination formats, in detection priority order.
const (
	FormatStandard   Format = "standard"
	FormatOData      Format = "odata"
	FormatCursor     Format = "cursor"
	FormatLinkHeader Format = "link-header"
	FormatNone       Format = "none"
)

// PaginationInfo describes how to continue after one page.
type PaginationInfo struct {
	Format Format

	// NextPage is the next page number (standard format).
	NextPage int
	// NextURL is a follow-me URL (odata and link-header formats).
	NextURL string
	// Cursor is the continuation token (cursor format).
	Cursor string

	HasMore bool
}

type detector func(body entity.Value, header http.Header) (PaginationInfo, bool)

// detectors in fixed priority order. Callers may depend on this order for
// responses matching more than one convention.
var detectors = []detector{
	detectStandard,
	detectOData,
	detectCursor,
	detectLinkHeader,
}

// Detect classifies a page's pagination convention.
func Detect(body entity.Value, header http.Header) PaginationInfo {
	for _, d := range detectors {
		if info, ok := d(body, header); ok {
			return info
		}
	}
	return PaginationInfo{Format: FormatNone}
}

// detectStandard matches envelopes carrying page and totalPages numbers.
func detectStandard(body entity.Value, _ http.Header) (PaginationInfo, bool) {
	obj, ok := body.(*entity.Object)
	if !ok {
		return PaginationInfo{}, false
	}
	page, okPage := numberField(obj, "page")
	totalPages, okTotal := numberField(obj, "totalPages")
	if !okPage || !okTotal {
		return PaginationInfo{}, false
	}
	return PaginationInfo{
		Format:   FormatStandard,
		NextPage: page + 1,
		HasMore:  page < totalPages,
	}, true
}

// detectOData matches envelopes with @odata.count or @odata.nextLink.
func detectOData(body entity.Value, _ http.Header) (PaginationInfo, bool) {
	obj, ok := body.(*entity.Object)
	if !ok {
		return PaginationInfo{}, false
	}
	nextLink, hasLink := obj.Get("@odata.nextLink")
	_, hasCount := obj.Get("@odata.count")
	if !hasLink && !hasCount {
		return PaginationInfo{}, false
	}
	info := PaginationInfo{Format: FormatOData}
	if hasLink {
		if link, isStr := nextLink.(entity.String); isStr && link != "" {
			info.NextURL = string(link)
			info.HasMore = true
		}
	}
	return info, true
}

// detectCursor matches envelopes with a cursor/nextCursor token and a
// hasMoreItems/hasMore flag.
func detectCursor(body entity.Value, _ http.Header) (PaginationInfo, bool) {
	obj, ok := body.(*entity.Object)
	if !ok {
		return PaginationInfo{}, false
	}
	var cursor string
	found := false
	for _, key := range []string{"cursor", "nextCursor"} {
		if v, present := obj.Get(key); present {
			if s, isStr := v.(entity.String); isStr {
				cursor = string(s)
				found = true
				break
			}
		}
	}
	if !found {
		return PaginationInfo{}, false
	}
	hasMore := false
	for _, key := range []string{"hasMoreItems", "hasMore"} {
		if v, present := obj.Get(key); present {
			if b, isBool := v.(entity.Bool); isBool {
				hasMore = bool(b)
			}
			break
		}
	}
	return PaginationInfo{
		Format:  FormatCursor,
		Cursor:  cursor,
		HasMore: hasMore && cursor != "",
	}, true
}

// detectLinkHeader matches an RFC 8288 Link header with rel="next".
func detectLinkHeader(_ entity.Value, header http.Header) (PaginationInfo, bool) {
	raw := header.Get("Link")
	if raw == "" {
		return PaginationInfo{}, false
	}
	next := nextFromLinkHeader(raw)
	if next == "" {
		return PaginationInfo{}, false
	}
	return PaginationInfo{
		Format:  FormatLinkHeader,
		NextURL: next,
		HasMore: true,
	}, true
}

// nextFromLinkHeader extracts the rel="next" target from a Link header
// value such as `<https://x/2>; rel="next", <https://x/9>; rel="last"`.
func nextFromLinkHeader(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segments[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="next"` || param == "rel=next" {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}

func numberField(obj *entity.Object, key string) (int, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(entity.Number)
	if !ok {
		return 0, false
	}
	return int(n), true
}
