package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/dealpulse/internal/domain/models"
	"github.com/guttosm/dealpulse/internal/ingestion"
	"github.com/guttosm/dealpulse/internal/logger"
	"github.com/guttosm/dealpulse/internal/metrics"
	"github.com/guttosm/dealpulse/internal/storage"
)

const (
	DefaultDays = 5
	MaxDays     = 30

	progressDateLayout = "02-01-2006"
)

// ErrRunFailed wraps anything that aborts a run outside the per-day fetches.
var ErrRunFailed = errors.New("analysis run failed")

var tracer = otel.Tracer("github.com/guttosm/dealpulse/internal/service")

// AnalysisOptions tunes a single run. Zero values fall back to the service defaults.
type AnalysisOptions struct {
	// Days is the number of trailing business days to analyze.
	Days int
	// Parallel bounds concurrent day fetches; 1 keeps them strictly sequential.
	Parallel int
}

// AnalysisService starts analysis runs and exposes their progress as an event stream.
type AnalysisService interface {
	// Start launches a run and returns its event channel. The channel yields
	// Progress events followed by exactly one Result or Error event, then is
	// closed. Cancelling ctx stops the run early and closes the channel
	// without a terminal event.
	Start(ctx context.Context, opts AnalysisOptions) <-chan models.ProgressEvent
}

type analysisService struct {
	fetcher  ingestion.DealFetcher
	runs     storage.RunsRepository
	defaults AnalysisOptions
	now      func() time.Time
	newID    func() string
}

// NewAnalysisService wires the pipeline: fetcher → classifier/aggregator → event stream.
// runs may be nil, in which case the journal is disabled.
func NewAnalysisService(fetcher ingestion.DealFetcher, runs storage.RunsRepository, defaults AnalysisOptions) AnalysisService {
	if runs == nil {
		runs = storage.NoopRunsRepository{}
	}
	if defaults.Days < 1 {
		defaults.Days = DefaultDays
	}
	if defaults.Parallel < 1 {
		defaults.Parallel = 1
	}
	return &analysisService{
		fetcher:  fetcher,
		runs:     runs,
		defaults: defaults,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *analysisService) normalize(opts AnalysisOptions) AnalysisOptions {
	if opts.Days < 1 {
		opts.Days = s.defaults.Days
	}
	if opts.Days > MaxDays {
		opts.Days = MaxDays
	}
	if opts.Parallel < 1 {
		opts.Parallel = s.defaults.Parallel
	}
	if opts.Parallel > opts.Days {
		opts.Parallel = opts.Days
	}
	return opts
}

func (s *analysisService) Start(ctx context.Context, opts AnalysisOptions) <-chan models.ProgressEvent {
	events := make(chan models.ProgressEvent, 1)
	go s.run(ctx, s.normalize(opts), events)
	return events
}

// run owns events and closes it exactly once, after the terminal event.
func (s *analysisService) run(ctx context.Context, opts AnalysisOptions, events chan<- models.ProgressEvent) {
	defer close(events)

	started := s.now()
	run := models.Run{ID: s.newID(), StartedAt: started.UTC(), Status: models.RunRunning, Days: opts.Days}
	log := logger.With("analysis").With().Str("run_id", run.ID).Logger()

	ctx, span := tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("run.id", run.ID),
		attribute.Int("run.days", opts.Days),
		attribute.Int("run.parallel", opts.Parallel),
	))
	defer span.End()

	// journal writes must survive a cancelled caller
	journalCtx := context.WithoutCancel(ctx)
	if err := s.runs.InsertRun(journalCtx, run); err != nil {
		log.Warn().Err(err).Msg("journal insert failed")
	}
	log.Info().Int("days", opts.Days).Int("parallel", opts.Parallel).Msg("run started")

	emit := func(ev models.ProgressEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	ranked, dealCount, err := s.execute(ctx, opts, emit)
	if err == nil && !emit(models.NewResultEvent(ranked)) {
		err = fmt.Errorf("deliver result: %w", ctx.Err())
	}

	finished := s.now()
	metrics.RunDuration.Observe(finished.Sub(started).Seconds())

	if err != nil {
		metrics.RunsTotal.WithLabelValues(string(models.RunFailed)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.journalFail(journalCtx, log, run.ID, finished, dealCount, err)

		if ctx.Err() != nil {
			log.Warn().Err(err).Msg("run cancelled")
			return
		}
		log.Error().Err(err).Msg("run failed")
		emit(models.NewErrorEvent(fmt.Sprintf("Analysis failed: %v", err)))
		return
	}

	metrics.RunsTotal.WithLabelValues(string(models.RunCompleted)).Inc()
	span.SetAttributes(attribute.Int("run.deals", dealCount), attribute.Int("run.results", len(ranked)))
	if err := s.runs.CompleteRun(journalCtx, run.ID, finished.UTC(), dealCount, len(ranked)); err != nil {
		log.Warn().Err(err).Msg("journal complete failed")
	}
	log.Info().Int("deals", dealCount).Int("results", len(ranked)).Dur("elapsed", finished.Sub(started)).Msg("run completed")
}

func (s *analysisService) journalFail(ctx context.Context, log zerolog.Logger, id string, finished time.Time, dealCount int, cause error) {
	if err := s.runs.FailRun(ctx, id, finished.UTC(), dealCount, cause.Error()); err != nil {
		log.Warn().Err(err).Msg("journal fail update failed")
	}
}

// execute runs the fetch → aggregate stages. Panics are converted into ErrRunFailed.
func (s *analysisService) execute(ctx context.Context, opts AnalysisOptions, emit func(models.ProgressEvent) bool) (ranked []models.StockAccumulation, dealCount int, err error) {
	defer recoverInto(&err)

	dates := ingestion.LastNBusinessDays(opts.Days, s.now())

	var deals []models.Deal
	if opts.Parallel > 1 {
		deals, err = s.fetchParallel(ctx, dates, opts.Parallel, emit)
	} else {
		deals, err = s.fetchSequential(ctx, dates, emit)
	}
	if err != nil {
		return nil, len(deals), err
	}

	if !emit(models.NewProgressEvent(fmt.Sprintf("Found %d total transactions. Analyzing institutional buying...", len(deals)))) {
		return nil, len(deals), fmt.Errorf("emit summary: %w", ctx.Err())
	}

	return Aggregate(deals), len(deals), nil
}

// fetchSequential fetches one day at a time, announcing each day before its request.
func (s *analysisService) fetchSequential(ctx context.Context, dates []time.Time, emit func(models.ProgressEvent) bool) ([]models.Deal, error) {
	var deals []models.Deal
	for _, d := range dates {
		if !emit(models.NewProgressEvent(fmt.Sprintf("Fetching data for %s...", d.Format(progressDateLayout)))) {
			return deals, fmt.Errorf("emit progress: %w", ctx.Err())
		}
		deals = append(deals, s.fetcher.FetchDealsForDate(ctx, d)...)
	}
	return deals, nil
}

// fetchParallel fetches up to limit days concurrently and announces each day
// as it completes. Deals are concatenated in calendar order so the ranking
// matches sequential mode.
func (s *analysisService) fetchParallel(ctx context.Context, dates []time.Time, limit int, emit func(models.ProgressEvent) bool) ([]models.Deal, error) {
	perDay := make([][]models.Deal, len(dates))
	var done int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, d := range dates {
		g.Go(func() (err error) {
			defer recoverInto(&err)

			perDay[i] = s.fetcher.FetchDealsForDate(gctx, d)
			n := atomic.AddInt32(&done, 1)
			msg := fmt.Sprintf("Fetched data for %s (%d/%d)", d.Format(progressDateLayout), n, len(dates))
			if !emit(models.NewProgressEvent(msg)) {
				return fmt.Errorf("emit progress: %w", ctx.Err())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var deals []models.Deal
	for _, day := range perDay {
		deals = append(deals, day...)
	}
	return deals, nil
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: unexpected error: %v", ErrRunFailed, r)
	}
}
