package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/dealpulse/internal/domain/models"
	"github.com/guttosm/dealpulse/internal/service"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

type scriptedAnalysis struct {
	events []models.ProgressEvent
	opts   service.AnalysisOptions
}

func (s *scriptedAnalysis) Start(_ context.Context, opts service.AnalysisOptions) <-chan models.ProgressEvent {
	s.opts = opts
	ch := make(chan models.ProgressEvent, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestStartServerAndShutdown(t *testing.T) {
	srv := startServer(dummyHandler{}, "0", 0) // random port
	if srv == nil {
		t.Fatalf("expected server")
	}
	if srv.WriteTimeout != 0 {
		t.Fatalf("write timeout must stay unbounded for streams, got %s", srv.WriteTimeout)
	}

	time.Sleep(50 * time.Millisecond)

	shutdownCtx, c := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer c()
	if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestGracefulShutdown_SignalPath(t *testing.T) {
	srv := startServer(dummyHandler{}, "0", time.Second)

	cleaned := make(chan struct{}, 1)
	go func() {
		gracefulShutdown(context.Background(), srv, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(50 * time.Millisecond)

	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
}

func TestRunAnalyze(t *testing.T) {
	cases := []struct {
		name     string
		events   []models.ProgressEvent
		wantErr  string
		contains []string
		missing  []string
	}{
		{
			name: "success renders progress then table",
			events: []models.ProgressEvent{
				models.NewProgressEvent("Fetching data for 13-10-2026..."),
				models.NewProgressEvent("Found 2 total transactions. Analyzing institutional buying..."),
				models.NewResultEvent([]models.StockAccumulation{{
					Symbol:           "TCS",
					TotalBuyQuantity: decimal.NewFromInt(150),
					TotalBuyValue:    decimal.NewFromInt(2000),
					TransactionCount: 2,
					AveragePrice:     decimal.RequireFromString("13.3333"),
				}}),
			},
			contains: []string{"Fetching data for 13-10-2026...", "SYMBOL", "TCS", "2000.00", "13.33"},
		},
		{
			name:     "empty result",
			events:   []models.ProgressEvent{models.NewResultEvent(nil)},
			contains: []string{"No institutional buying"},
			missing:  []string{"SYMBOL"},
		},
		{
			name: "failure returns error",
			events: []models.ProgressEvent{
				models.NewProgressEvent("Fetching data for 13-10-2026..."),
				models.NewErrorEvent("Analysis failed: boom"),
			},
			wantErr:  "Analysis failed: boom",
			contains: []string{"Fetching data for 13-10-2026..."},
		},
		{
			name:    "stream closed early",
			events:  []models.ProgressEvent{models.NewProgressEvent("Fetching data for 13-10-2026...")},
			wantErr: "without a result",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &scriptedAnalysis{events: tc.events}
			var out bytes.Buffer

			err := runAnalyze(context.Background(), svc, service.AnalysisOptions{Days: 3, Parallel: 2}, &out)
			if tc.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
			if svc.opts.Days != 3 || svc.opts.Parallel != 2 {
				t.Fatalf("options not forwarded: %+v", svc.opts)
			}
			for _, s := range tc.contains {
				if !strings.Contains(out.String(), s) {
					t.Fatalf("output missing %q:\n%s", s, out.String())
				}
			}
			for _, s := range tc.missing {
				if strings.Contains(out.String(), s) {
					t.Fatalf("output must not contain %q:\n%s", s, out.String())
				}
			}
		})
	}
}
