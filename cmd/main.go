package main

//
//  @title           dealpulse API
//  @version         1.0
//  @description     Institutional accumulation analysis over NSE bulk-deal archives.
//  @termsOfService  https://github.com/guttosm/dealpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/dealpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        analysis
//  @tag.description Trigger a run and stream its progress
//
//  @tag.name        runs
//  @tag.description Run journal
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guttosm/dealpulse/config"
	_ "github.com/guttosm/dealpulse/docs" // swagger docs
	"github.com/guttosm/dealpulse/internal/app"
	"github.com/guttosm/dealpulse/internal/logger"
	"github.com/guttosm/dealpulse/internal/service"
	"github.com/guttosm/dealpulse/internal/telemetry"
	"github.com/guttosm/dealpulse/internal/view"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
// writeTimeout of zero leaves analysis streams unbounded.
func startServer(router http.Handler, port string, writeTimeout time.Duration) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runAnalyze runs one analysis, printing each progress message as it arrives
// and then the ranked table. A failed run is returned as an error.
func runAnalyze(ctx context.Context, svc service.AnalysisService, opts service.AnalysisOptions, out io.Writer) error {
	state := view.Start(view.Initial())

	for ev := range svc.Start(ctx, opts) {
		state = view.Reduce(state, ev)
		if state.Phase == view.PhaseLoading {
			fmt.Fprintln(out, state.Progress[len(state.Progress)-1])
		}
	}

	switch state.Phase {
	case view.PhaseDone:
		return renderTable(out, state)
	case view.PhaseFailed:
		return errors.New(state.Error)
	default:
		if err := context.Cause(ctx); err != nil {
			return fmt.Errorf("analysis interrupted: %w", err)
		}
		return errors.New("analysis ended without a result")
	}
}

func renderTable(out io.Writer, state view.State) error {
	if len(state.Results) == 0 {
		_, err := fmt.Fprintln(out, "No institutional buying found in the selected window.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSYMBOL\tBUY QTY\tBUY VALUE\tTRADES\tAVG PRICE\t")
	for i, r := range state.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t\n",
			i+1,
			r.Symbol,
			r.TotalBuyQuantity.String(),
			r.TotalBuyValue.StringFixed(2),
			r.TransactionCount,
			r.AveragePrice.StringFixed(2),
		)
	}
	return tw.Flush()
}

// main is the entry point of the dealpulse application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the HTTP server exposing the analysis stream.
//   - analyze: Runs one analysis and prints progress and the ranked table.
//
// Flags:
//   - --mode:     Execution mode ("api" or "analyze"). Default: "api".
//   - --days:     Business days to analyze (1-30). Defaults to ANALYSIS_DAYS.
//   - --parallel: Concurrent day fetches. Defaults to ANALYSIS_PARALLEL.
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or analyze")
	days := flag.Int("days", config.AppConfig.Analysis.Days, "Number of last business days to analyze (1-30)")
	parallel := flag.Int("parallel", config.AppConfig.Analysis.Parallel, "How many days to fetch concurrently")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	shutdownTracing, err := telemetry.Init(config.AppConfig.Tracing.Enabled)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("tracing init error")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	switch *mode {
	case "analyze":
		// stdout carries the rendered analysis
		logger.SetOutput(os.Stderr)

		if *days < 1 || *days > service.MaxDays {
			logger.L().Fatal().Int("days", *days).Msg("days must be between 1 and 30")
		}

		c, err := app.NewComponents(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer c.Cleanup()

		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		err = runAnalyze(runCtx, c.Analysis, service.AnalysisOptions{Days: *days, Parallel: *parallel}, os.Stdout)
		stop()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			c.Cleanup()
			_ = shutdownTracing(context.Background())
			os.Exit(1)
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, config.AppConfig.Server.WriteTimeout)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
