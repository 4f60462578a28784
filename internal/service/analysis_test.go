package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/dealpulse/internal/domain/models"
	"github.com/guttosm/dealpulse/internal/ingestion"
)

// Wednesday; a 2-day window covers 14-10-2026 and 13-10-2026.
var refNow = time.Date(2026, 10, 14, 18, 30, 0, 0, time.UTC)

type stubFetcher struct {
	mu      sync.Mutex
	byDate  map[string][]models.Deal
	calls   []string
	panicOn string
	onFetch func(ctx context.Context, day string)
}

func (s *stubFetcher) FetchDealsForDate(ctx context.Context, date time.Time) []models.Deal {
	day := date.Format("02-01-2006")
	s.mu.Lock()
	s.calls = append(s.calls, day)
	s.mu.Unlock()

	if s.onFetch != nil {
		s.onFetch(ctx, day)
	}
	if day == s.panicOn {
		panic("index out of range")
	}
	return s.byDate[day]
}

type recordingRepo struct {
	mu        sync.Mutex
	inserted  []models.Run
	completed map[string][2]int
	failed    map[string]string
	err       error
	finished  chan struct{}
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{
		completed: map[string][2]int{},
		failed:    map[string]string{},
		finished:  make(chan struct{}),
	}
}

func (r *recordingRepo) InsertRun(_ context.Context, run models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, run)
	return r.err
}

func (r *recordingRepo) CompleteRun(_ context.Context, id string, _ time.Time, deals, results int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[id] = [2]int{deals, results}
	close(r.finished)
	return r.err
}

func (r *recordingRepo) FailRun(_ context.Context, id string, _ time.Time, _ int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[id] = reason
	close(r.finished)
	return r.err
}

func (r *recordingRepo) ListRecentRuns(context.Context, int) ([]models.Run, error) {
	return nil, nil
}

func newTestService(f ingestion.DealFetcher, repo *recordingRepo, defaults AnalysisOptions) *analysisService {
	svc := NewAnalysisService(f, repo, defaults).(*analysisService)
	svc.now = func() time.Time { return refNow }
	svc.newID = func() string { return "run-1" }
	return svc
}

func collect(t *testing.T, events <-chan models.ProgressEvent) []models.ProgressEvent {
	t.Helper()
	var out []models.ProgressEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("event stream not closed; got %d events", len(out))
		}
	}
}

func countByType(events []models.ProgressEvent) map[models.EventType]int {
	out := map[models.EventType]int{}
	for _, ev := range events {
		out[ev.Type]++
	}
	return out
}

func twoDayFixture() *stubFetcher {
	return &stubFetcher{byDate: map[string][]models.Deal{
		"13-10-2026": {
			buy("TCS", "XYZ MUTUAL FUND", 100, 10),
			buy("INFY", "ABC BANK LTD", 10, 50),
			buy("TCS", "LIC OF INDIA", 50, 20),
		},
	}}
}

func TestAnalysis_TwoDayWindow_EventSequence(t *testing.T) {
	f := twoDayFixture()
	repo := newRecordingRepo()
	svc := newTestService(f, repo, AnalysisOptions{Days: 2})

	events := collect(t, svc.Start(context.Background(), AnalysisOptions{}))

	require.Len(t, events, 4)
	assert.Equal(t, map[models.EventType]int{models.EventProgress: 3, models.EventResult: 1}, countByType(events))
	assert.Equal(t, "Fetching data for 14-10-2026...", events[0].Message)
	assert.Equal(t, "Fetching data for 13-10-2026...", events[1].Message)
	assert.Contains(t, events[2].Message, "Found 3 total transactions")

	result := events[3]
	require.Equal(t, models.EventResult, result.Type)
	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "TCS", result.Ranked[0].Symbol)
	assert.Equal(t, 2, result.Ranked[0].TransactionCount)
	assert.Equal(t, "INFY", result.Ranked[1].Symbol)

	assert.Equal(t, []string{"14-10-2026", "13-10-2026"}, f.calls)
	assert.Equal(t, [2]int{3, 2}, repo.completed["run-1"])
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, models.RunRunning, repo.inserted[0].Status)
	assert.Equal(t, 2, repo.inserted[0].Days)
}

func TestAnalysis_EndToEndWithArchive(t *testing.T) {
	body := "Date,Symbol,Client Name,Buy/Sell,Quantity Traded,Trade Price,Remarks,\n" +
		"13-OCT-2026,TCS,XYZ MUTUAL FUND,BUY,\"1,000\",10,-,\n" +
		"13-OCT-2026,TCS,ABC BANK LTD,BUY,500,20,-,\n" +
		"13-OCT-2026,INFY,DELTA CAPITAL,BUY,100,5,-,\n" +
		"13-OCT-2026,INFY,RAJESH KUMAR SHARMA,SELL,100,5,-,\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "bulk_13102026.csv") {
			_, _ = w.Write([]byte(body))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := newTestService(ingestion.NewArchiveFetcher(srv.URL), newRecordingRepo(), AnalysisOptions{Days: 2})
	events := collect(t, svc.Start(context.Background(), AnalysisOptions{}))

	require.Len(t, events, 4)
	counts := countByType(events)
	assert.Equal(t, 3, counts[models.EventProgress])
	assert.Equal(t, 1, counts[models.EventResult])
	assert.Zero(t, counts[models.EventError])

	ranked := events[3].Ranked
	require.Len(t, ranked, 2)
	assert.Equal(t, "TCS", ranked[0].Symbol)
	assert.Equal(t, "20000", ranked[0].TotalBuyValue.String())
	assert.Equal(t, "INFY", ranked[1].Symbol)
}

func TestAnalysis_PanicBecomesSingleErrorEvent(t *testing.T) {
	f := twoDayFixture()
	f.panicOn = "13-10-2026"
	repo := newRecordingRepo()
	svc := newTestService(f, repo, AnalysisOptions{Days: 2})

	events := collect(t, svc.Start(context.Background(), AnalysisOptions{}))

	counts := countByType(events)
	assert.Equal(t, 1, counts[models.EventError])
	assert.Zero(t, counts[models.EventResult])
	last := events[len(events)-1]
	assert.Equal(t, models.EventError, last.Type)
	assert.Contains(t, last.Message, "Analysis failed")
	assert.Contains(t, repo.failed["run-1"], "index out of range")
}

func TestAnalysis_ParallelMatchesSequential(t *testing.T) {
	byDate := map[string][]models.Deal{}
	for i, day := range []string{"14-10-2026", "13-10-2026", "12-10-2026", "09-10-2026", "08-10-2026"} {
		byDate[day] = []models.Deal{
			buy("SAME", "ALPHA CAPITAL", 10, 10),
			buy("SYM"+day[:2], "BETA FUND", int64(i+1), 7),
		}
	}

	seq := collect(t, newTestService(&stubFetcher{byDate: byDate}, newRecordingRepo(), AnalysisOptions{Days: 5}).
		Start(context.Background(), AnalysisOptions{Parallel: 1}))
	par := collect(t, newTestService(&stubFetcher{byDate: byDate}, newRecordingRepo(), AnalysisOptions{Days: 5}).
		Start(context.Background(), AnalysisOptions{Parallel: 3}))

	require.Len(t, seq, 7)
	require.Len(t, par, 7)
	assert.Equal(t, 6, countByType(par)[models.EventProgress])

	seqRanked, parRanked := seq[6].Ranked, par[6].Ranked
	require.Equal(t, len(seqRanked), len(parRanked))
	for i := range seqRanked {
		assert.Equal(t, seqRanked[i].Symbol, parRanked[i].Symbol)
		assert.True(t, seqRanked[i].TotalBuyValue.Equal(parRanked[i].TotalBuyValue))
	}
	for _, ev := range par[:5] {
		assert.True(t, strings.HasPrefix(ev.Message, "Fetched data for "), ev.Message)
	}
}

func TestAnalysis_ParallelPanicBecomesErrorEvent(t *testing.T) {
	f := twoDayFixture()
	f.panicOn = "14-10-2026"
	svc := newTestService(f, newRecordingRepo(), AnalysisOptions{Days: 2})

	events := collect(t, svc.Start(context.Background(), AnalysisOptions{Parallel: 2}))
	require.NotEmpty(t, events)
	assert.Equal(t, models.EventError, events[len(events)-1].Type)
	assert.Zero(t, countByType(events)[models.EventResult])
}

func TestAnalysis_CancelStopsWithoutTerminalEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := twoDayFixture()
	f.onFetch = func(context.Context, string) { cancel() }
	repo := newRecordingRepo()
	svc := newTestService(f, repo, AnalysisOptions{Days: 2})

	events := svc.Start(ctx, AnalysisOptions{})

	select {
	case <-repo.finished:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish after cancellation")
	}

	got := collect(t, events)
	require.Len(t, got, 1)
	assert.Equal(t, "Fetching data for 14-10-2026...", got[0].Message)
	assert.Contains(t, repo.failed["run-1"], context.Canceled.Error())
}

func TestAnalysis_JournalErrorsDoNotAffectStream(t *testing.T) {
	repo := newRecordingRepo()
	repo.err = errors.New("db down")
	svc := newTestService(twoDayFixture(), repo, AnalysisOptions{Days: 2})

	events := collect(t, svc.Start(context.Background(), AnalysisOptions{}))
	require.NotEmpty(t, events)
	assert.Equal(t, models.EventResult, events[len(events)-1].Type)
}

func TestAnalysis_NoDataAnywhere(t *testing.T) {
	svc := newTestService(&stubFetcher{}, newRecordingRepo(), AnalysisOptions{Days: 3})

	events := collect(t, svc.Start(context.Background(), AnalysisOptions{}))
	require.Len(t, events, 5)
	assert.Contains(t, events[3].Message, "Found 0 total transactions")
	assert.Equal(t, models.EventResult, events[4].Type)
	assert.Empty(t, events[4].Ranked)
}

func TestAnalysisService_Normalize(t *testing.T) {
	svc := NewAnalysisService(&stubFetcher{}, nil, AnalysisOptions{}).(*analysisService)

	cases := []struct {
		in, want AnalysisOptions
	}{
		{in: AnalysisOptions{}, want: AnalysisOptions{Days: DefaultDays, Parallel: 1}},
		{in: AnalysisOptions{Days: 100}, want: AnalysisOptions{Days: MaxDays, Parallel: 1}},
		{in: AnalysisOptions{Days: 2, Parallel: 8}, want: AnalysisOptions{Days: 2, Parallel: 2}},
		{in: AnalysisOptions{Days: 7, Parallel: 3}, want: AnalysisOptions{Days: 7, Parallel: 3}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, svc.normalize(c.in))
	}
}
