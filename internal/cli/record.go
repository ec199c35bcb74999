package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/crawler"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/record"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Endpoints     []string
	EndpointsFile string
	Headers       []string
	MaxPages      int
	Truncate      int
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <output-dir>",
		Short: "Record paginated API responses to disk",
		Long: `Record paginated API responses to disk.

Each endpoint is drained page by page (standard page/totalPages, OData
nextLink, cursor and Link-header pagination are detected automatically)
into <output-dir>/<name>/page_NNN.json, plus a combined.json with every
item and a pages.json crawl manifest.

Endpoints come from repeatable --endpoint flags, from a YAML file, or
both.

Example:
  ezmocker record ./recordings --endpoint products=https://api.example.com/products
  ezmocker record ./out -e users=https://api.example.com/users -H "Authorization: Bearer t" --max-pages 5
  ezmocker record ./out --endpoints-file endpoints.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Endpoints, "endpoint", "e", nil, "endpoint to record, as name=url (repeatable)")
	cmd.Flags().StringVar(&opts.EndpointsFile, "endpoints-file", "", "YAML file listing endpoints to record")
	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, `request header, as "Name: value" (repeatable)`)
	cmd.Flags().IntVar(&opts.MaxPages, "max-pages", 0, "page ceiling per endpoint (overrides config)")
	cmd.Flags().IntVar(&opts.Truncate, "truncate", 0, "item cap for combined.json (overrides config)")

	return cmd
}

func runRecord(cmd *cobra.Command, opts *RecordOptions, outDir string) error {
	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.MaxPages > 0 {
		cfg.MaxPages = opts.MaxPages
	}
	if opts.Truncate > 0 {
		cfg.TruncateLimit = opts.Truncate
	}

	header, err := parseHeaders(opts.Headers)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid header", err)
	}
	endpoints, err := parseEndpoints(opts.Endpoints, header)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid endpoint", err)
	}
	if opts.EndpointsFile != "" {
		fromFile, err := loadEndpointsFile(opts.EndpointsFile, header)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid endpoints file", err)
		}
		endpoints = append(endpoints, fromFile...)
	}
	if len(endpoints) == 0 {
		return NewExitError(ExitCommandError, "no endpoints: pass --endpoint or --endpoints-file")
	}

	rec := record.NewRecorder(http.DefaultClient, log,
		record.WithMaxPages(cfg.MaxPages),
		record.WithTruncateLimit(cfg.TruncateLimit),
	)
	indexes, err := rec.Record(cmd.Context(), outDir, endpoints)
	if err != nil {
		return WrapExitError(ExitFailure, "recording failed", err)
	}

	for _, idx := range indexes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d page(s) -> %s\n", idx.Endpoint, idx.PageCount, outDir)
	}
	return nil
}

// parseEndpoints turns name=url pairs into crawler endpoints.
func parseEndpoints(pairs []string, header http.Header) ([]crawler.Endpoint, error) {
	endpoints := make([]crawler.Endpoint, 0, len(pairs))
	for _, pair := range pairs {
		name, rawURL, ok := strings.Cut(pair, "=")
		if !ok || name == "" || rawURL == "" {
			return nil, fmt.Errorf("%q is not of the form name=url", pair)
		}
		endpoints = append(endpoints, crawler.Endpoint{
			Name:   name,
			URL:    rawURL,
			Header: header,
		})
	}
	return endpoints, nil
}

// endpointsFile is the on-disk YAML shape of --endpoints-file.
type endpointsFile struct {
	Endpoints []endpointSpec `yaml:"endpoints"`
}

type endpointSpec struct {
	Name    string            `yaml:"name"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// loadEndpointsFile reads endpoint declarations from a YAML file.
// Per-endpoint headers extend the shared --header set.
func loadEndpointsFile(path string, shared http.Header) ([]crawler.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f endpointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	endpoints := make([]crawler.Endpoint, 0, len(f.Endpoints))
	for _, spec := range f.Endpoints {
		if spec.Name == "" || spec.URL == "" {
			return nil, fmt.Errorf("endpoint entries need both name and url, got name=%q url=%q", spec.Name, spec.URL)
		}
		header := http.Header{}
		for name, values := range shared {
			for _, v := range values {
				header.Add(name, v)
			}
		}
		for name, value := range spec.Headers {
			header.Set(name, value)
		}
		if len(header) == 0 {
			header = nil
		}
		endpoints = append(endpoints, crawler.Endpoint{Name: spec.Name, URL: spec.URL, Header: header})
	}
	return endpoints, nil
}

// parseHeaders turns "Name: value" strings into an http.Header.
func parseHeaders(raw []string) (http.Header, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	header := http.Header{}
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%q is not of the form \"Name: value\"", h)
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return header, nil
}
