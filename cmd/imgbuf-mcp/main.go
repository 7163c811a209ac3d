package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ironsheep/imgbuf/internal/config"
	"github.com/ironsheep/imgbuf/internal/cvmat"
	"github.com/ironsheep/imgbuf/internal/logger"
	"github.com/ironsheep/imgbuf/internal/parallel"
	"github.com/ironsheep/imgbuf/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries the settings resolved before any command runs.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "imgbuf-mcp",
		Short: "MCP server exposing stride-aware image buffer tools",
		Long: `imgbuf-mcp - MCP server for image buffer operations.

The server communicates via the MCP protocol over stdin/stdout: configure it
in your MCP client. Logs go to stderr.

Settings are read from imgbuf.toml in the working directory (or --config),
then IMGBUF_* environment variables, then flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.serve,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a TOML config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("json-logs", false, "Write logs as JSON")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve MCP requests on stdio (the default)",
		RunE:  a.serve,
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imgbuf-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "  OpenCV: %t\n", cvmat.Available)
		},
	})
	return root
}

// setup loads the configuration, lets explicitly set flags override it and
// applies the result to the logger and the parallel dispatcher.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")

	v, err := config.NewViper(path)
	if err != nil {
		return err
	}
	if f := flags.Lookup("log-level"); f.Changed {
		v.Set("log.level", f.Value.String())
	}
	if f := flags.Lookup("json-logs"); f.Changed {
		v.Set("log.json", f.Value.String() == "true")
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	if err := logger.Initialize(logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON}); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	parallel.SetSequentialThreshold(cfg.Parallel.MinPixels)

	a.cfg = cfg
	return nil
}

func (a *app) serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	log := logger.Named("main")
	log.Debugw("starting", "version", Version, "built", BuildTime, "commit", GitCommit,
		"format", a.cfg.Output.Format, "min_pixels", a.cfg.Parallel.MinPixels)

	srv, err := server.New(a.cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	// The stdin read cannot be interrupted, so a signal returns without
	// waiting for it.
	errc := make(chan error, 1)
	go func() { errc <- srv.Run(ctx) }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, context.Canceled) {
			return errors.Wrap(err, "server error")
		}
	case <-ctx.Done():
		log.Infow("shutting down", "cause", context.Cause(ctx))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
