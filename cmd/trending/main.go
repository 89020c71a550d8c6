// ============================================================================
// cmd/trending/main.go - Print the top trending DexScreener pairs
// ============================================================================
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/meme-scout/internal/config"
	"github.com/aman-zulfiqar/meme-scout/internal/constants"
	"github.com/aman-zulfiqar/meme-scout/internal/dexscreener"
	"github.com/aman-zulfiqar/meme-scout/internal/models"
	"github.com/aman-zulfiqar/meme-scout/internal/trending"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries a process exit code for a failure that was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type options struct {
	limit   int
	output  string
	timeout time.Duration
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, loadEnv)
	stop()
	os.Exit(code)
}

// loadEnv reads the project's .env if present; the environment always wins.
func loadEnv() error {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	return godotenv.Load(filepath.Join(projectRoot, ".env"))
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, envLoader func() error) int {
	cmd := newRootCmd(stdout, stderr, envLoader)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// cobra argument and flag errors
	fmt.Fprintf(stderr, "Error: %v\n%s", err, cmd.UsageString())
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer, envLoader func() error) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "trending [m5|h1|h6|h24]",
		Short: "Print the top trending DexScreener pairs",
		Long: `Fetches the DexScreener ranking page for a timeframe, reads the
embedded window.__SERVER_DATA payload and prints one line per pair:

  name | chain | $price | change% | token address

The timeframe selects both the ranking and the reported price change.
It defaults to h24.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}
			return run(cmd, raw, opts, envLoader)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.IntVarP(&opts.limit, "limit", "n", 0, fmt.Sprintf("number of pairs to print (default TRENDING_LIMIT or %d)", constants.DefaultTrendingLimit))
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	f.DurationVar(&opts.timeout, "timeout", 0, "HTTP timeout (default HTTP_TIMEOUT or 30s)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func newLogger(w io.Writer, level string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func run(cmd *cobra.Command, rawTimeframe string, opts *options, envLoader func() error) error {
	var envErr error
	if envLoader != nil {
		envErr = envLoader()
	}

	cfg := config.Load()
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.verbose)
	if envErr != nil {
		logger.WithError(envErr).Debug("no .env loaded, using system environment variables")
	}

	if cmd.Flags().Changed("limit") {
		cfg.TrendingLimit = opts.limit
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTPTimeout = opts.timeout
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		return &exitError{code: exitUsage, err: err}
	}

	output := strings.ToLower(opts.output)
	if output != "text" && output != "json" {
		err := fmt.Errorf("unknown output format %q", opts.output)
		logger.WithError(err).Error("invalid --output")
		return &exitError{code: exitUsage, err: err}
	}

	tf, err := dexscreener.ParseTimeframe(rawTimeframe)
	if err != nil {
		logger.WithError(err).Error("invalid timeframe")
		return &exitError{code: exitUsage, err: err}
	}

	client := dexscreener.NewClient(dexscreener.ClientConfig{
		BaseURL:   cfg.DexScreenerBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Logger:    logger,
	})
	defer client.CloseIdleConnections()

	logger.WithFields(logrus.Fields{
		"timeframe": tf.String(),
		"url":       client.PageURL(tf),
	}).Debug("fetching trending pairs")

	pairs, err := client.FetchTrending(cmd.Context(), tf)
	if err != nil {
		if errors.Is(err, dexscreener.ErrNoServerData) {
			logger.Error("No __SERVER_DATA found")
		} else {
			logger.WithError(err).Error("failed to fetch trending pairs")
		}
		return &exitError{code: exitFailure, err: err}
	}

	entries := trending.BuildEntries(pairs, tf, cfg.TrendingLimit)
	logger.WithFields(logrus.Fields{
		"pairs":   len(pairs),
		"printed": len(entries),
	}).Debug("selected trending pairs")

	if output == "json" {
		err = trending.WriteJSON(cmd.OutOrStdout(), &models.Snapshot{
			Timeframe: tf.String(),
			FetchedAt: time.Now().UTC(),
			Entries:   entries,
		})
	} else {
		err = trending.WriteLines(cmd.OutOrStdout(), entries)
	}
	if err != nil {
		logger.WithError(err).Error("failed to write output")
		return &exitError{code: exitFailure, err: err}
	}
	return nil
}
