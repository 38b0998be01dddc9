package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/paperview/internal/browser"
	"github.com/matsen/paperview/internal/server"
	"github.com/matsen/paperview/internal/viz"
)

// openDelay gives the listener time to start before the browser connects.
const openDelay = 300 * time.Millisecond

var (
	serveAddr  string
	serveSeed  uint64
	serveWords int
	serveOpen  bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: listen_addr from config)")
	serveCmd.Flags().Uint64Var(&serveSeed, "seed", 0, "Fixed seed for samples (default: new sample per request)")
	serveCmd.Flags().IntVar(&serveWords, "words", viz.DefaultOptions().MaxWords, "Words drawn in the word cloud, 0 for all")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "Open the dashboard in the browser")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Long: `Serve the interactive dashboard over HTTP. The page has a year range
control bounded by the data; every change re-runs the aggregation for the
new range.

Endpoints:
  /                  interactive page
  /api/bounds        year bounds and paper count
  /api/view          dashboard for ?from=&to=
  /api/search        full-text search with ?q=&from=&to=&journal=&limit=

Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveWords < 0 {
		exitWithError(ExitError, "invalid --words %d: must be >= 0", serveWords)
	}

	settings := mustLoadSettings()
	table := mustLoadTable()

	addr := serveAddr
	if addr == "" {
		addr = settings.ListenAddr
	}

	srv, err := server.New(table, server.Options{
		TopJournals: settings.TopJournals,
		SampleSize:  settings.SampleSize,
		MaxWords:    serveWords,
		RateLimit:   settings.RateLimit,
		RateBurst:   settings.RateBurst,
		Seed:        serveSeed,
	}, logger)
	if err != nil {
		exitWithError(ExitError, "starting server: %v", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if humanOutput {
		fmt.Printf("Serving %d papers at %s (Ctrl-C to stop)\n", table.Len(), browser.URLFor(addr))
	} else {
		if err := outputJSON(ServeResponse{Status: "serving", Addr: addr, Papers: table.Len()}); err != nil {
			logger.Warn("writing serve status", zap.Error(err))
		}
	}

	if serveOpen {
		go func() {
			time.Sleep(openDelay)
			if err := browser.Open(browser.URLFor(addr)); err != nil {
				logger.Warn("opening browser", zap.Error(err))
			}
		}()
	}

	return srv.ListenAndServe(ctx, addr)
}

// ServeResponse is printed once the server starts.
type ServeResponse struct {
	Status string `json:"status"`
	Addr   string `json:"addr"`
	Papers int    `json:"papers"`
}
