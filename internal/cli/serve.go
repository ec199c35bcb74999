package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/config"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/server"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen  string
	DataDir string
	Persist bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock API server",
		Long: `Start the mock API server.

Collections load from the data directory as <tenant>/<collection>.json
files and are served under /api/{tenant}/{collection} with $filter,
$select, $orderby, $top, $skip, $count and $expand support.

Example:
  ezmocker serve --data ./recordings --listen :8080
  ezmocker serve -c ezmocker.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.DataDir, "data", "", "seed data directory (overrides config)")
	cmd.Flags().BoolVar(&opts.Persist, "persist", false, "write collections back to the data directory on shutdown")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	log := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	applyServeOverrides(&cfg, opts)
	if opts.Persist && cfg.DataDir == "" {
		return NewExitError(ExitCommandError, "--persist needs a data directory")
	}

	st := store.New()
	if cfg.DataDir != "" {
		log.Info().Str("dir", cfg.DataDir).Msg("loading seed data")
		if err := st.LoadDir(cfg.DataDir); err != nil {
			return WrapExitError(ExitCommandError, "failed to load seed data", err)
		}
		for _, tenantName := range st.Tenants() {
			log.Debug().Str("tenant", tenantName).
				Strs("collections", st.Collections(tenantName)).Msg("tenant loaded")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(st, cfg, log)
	if err := srv.ListenAndServe(ctx); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	if opts.Persist {
		log.Info().Str("dir", cfg.DataDir).Msg("persisting collections")
		if err := st.SaveDir(cfg.DataDir); err != nil {
			return WrapExitError(ExitFailure, "failed to persist collections", err)
		}
	}
	log.Info().Msg("server stopped")
	return nil
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// applyServeOverrides lets flags win over file and environment.
func applyServeOverrides(cfg *config.Config, opts *ServeOptions) {
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
}
