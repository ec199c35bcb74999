package query

import (
	"net/url"
	"strconv"
)

// Options is the parsed set of recognized query parameters.
// Unrecognized parameters are ignored entirely.
type Options struct {
	Select  string
	Filter  string
	OrderBy string
	Expand  string

	// Top/Skip are valid only when the matching Has flag is set.
	// Non-numeric or negative inputs are treated as absent.
	Top     int
	HasTop  bool
	Skip    int
	HasSkip bool

	// Count requests the post-filter count in the envelope.
	Count bool
}

// ParseOptions extracts the recognized $-parameters from a query string.
func ParseOptions(params url.Values) Options {
	opts := Options{
		Select:  params.Get("$select"),
		Filter:  params.Get("$filter"),
		OrderBy: params.Get("$orderby"),
		Expand:  params.Get("$expand"),
		Count:   params.Get("$count") == "true",
	}
	opts.Top, opts.HasTop = parseBound(params.Get("$top"))
	opts.Skip, opts.HasSkip = parseBound(params.Get("$skip"))
	return opts
}

// parseBound parses a non-negative integer; anything else counts as absent.
func parseBound(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
