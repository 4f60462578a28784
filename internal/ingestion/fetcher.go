package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/guttosm/dealpulse/internal/domain/models"
	"github.com/guttosm/dealpulse/internal/logger"
	"github.com/guttosm/dealpulse/internal/metrics"
)

const (
	archivePathFormat = "/content/equities/bulk_%s.csv"
	fileDateLayout    = "02012006" // DDMMYYYY
	defaultMaxBody    = 32 << 20

	DefaultBaseURL   = "https://archives.nseindia.com"
	DefaultReferer   = "https://www.nseindia.com/"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

// ErrNoData marks a day without a usable file: non-2xx status, or fewer than
// two lines (header plus one row). It is the common "market closed" case.
var ErrNoData = errors.New("no data for date")

// ErrBodyTooLarge marks a file over the size cap. The day is treated as a
// failed fetch so a truncated last row is never parsed.
var ErrBodyTooLarge = errors.New("archive file too large")

var tracer = otel.Tracer("github.com/guttosm/dealpulse/internal/ingestion")

// DealFetcher retrieves the buy-side deals disclosed for one calendar date.
// Implementations never fail: missing or unreadable data yields no deals.
type DealFetcher interface {
	FetchDealsForDate(ctx context.Context, date time.Time) []models.Deal
}

// ArchiveFetcher downloads daily bulk deal files from the exchange archive.
type ArchiveFetcher struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	limiter    *rate.Limiter
	maxBody    int64
}

// FetcherOption configures an ArchiveFetcher.
type FetcherOption func(*ArchiveFetcher)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *ArchiveFetcher) {
		f.httpClient = c
	}
}

// WithTimeout sets the per-request timeout of the HTTP client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *ArchiveFetcher) {
		if d > 0 {
			f.httpClient.Timeout = d
		}
	}
}

// WithHeader overrides one of the browser-like request headers.
func WithHeader(key, value string) FetcherOption {
	return func(f *ArchiveFetcher) {
		if value != "" {
			f.headers[key] = value
		}
	}
}

// WithMaxBodySize caps the bytes accepted per daily file; larger files are
// rejected rather than truncated.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *ArchiveFetcher) {
		if n > 0 {
			f.maxBody = n
		}
	}
}

// WithRateLimit spaces upstream requests to at most perSecond requests per
// second. Zero or negative disables throttling.
func WithRateLimit(perSecond float64) FetcherOption {
	return func(f *ArchiveFetcher) {
		if perSecond <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewArchiveFetcher creates a fetcher for the archive at baseURL (no trailing slash needed).
// The archive rejects requests without a browser User-Agent and Referer, so
// those are always sent.
func NewArchiveFetcher(baseURL string, opts ...FetcherOption) *ArchiveFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	f := &ArchiveFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		headers: map[string]string{
			"User-Agent":      DefaultUserAgent,
			"Accept":          "text/csv,text/plain,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Referer":         DefaultReferer,
			"Connection":      "keep-alive",
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		maxBody: defaultMaxBody,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ArchiveURL returns the daily file URL for date, e.g. .../bulk_16102026.csv.
func (f *ArchiveFetcher) ArchiveURL(date time.Time) string {
	return f.baseURL + fmt.Sprintf(archivePathFormat, date.Format(fileDateLayout))
}

// FetchDealsForDate downloads and parses the file for date.
//
// Behavior:
//   - Non-2xx responses and bodies shorter than two lines yield no deals (ErrNoData).
//   - Network and read failures are logged at warn level and yield no deals.
//   - Rows failing validation are skipped; the rest of the file is kept.
func (f *ArchiveFetcher) FetchDealsForDate(ctx context.Context, date time.Time) []models.Deal {
	day := date.Format("02-01-2006")
	ctx, span := tracer.Start(ctx, "upstream.fetch", trace.WithAttributes(attribute.String("date", day)))
	defer span.End()

	log := logger.With("fetcher")
	start := time.Now()

	body, status, err := f.download(ctx, date)
	span.SetAttributes(attribute.Int("http.status_code", status))

	switch {
	case errors.Is(err, ErrNoData):
		metrics.UpstreamFetchTotal.WithLabelValues(metrics.OutcomeNoData).Inc()
		log.Info().Str("date", day).Int("status", status).Dur("elapsed", time.Since(start)).Msg("no data for day")
		return nil
	case err != nil:
		metrics.UpstreamFetchTotal.WithLabelValues(metrics.OutcomeError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Str("date", day).Err(err).Dur("elapsed", time.Since(start)).Msg("fetch failed")
		return nil
	}

	deals, skipped := ParseDeals(body, date)

	metrics.UpstreamFetchTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.DealsParsedTotal.Add(float64(len(deals)))
	metrics.RowsSkippedTotal.Add(float64(skipped))
	span.SetAttributes(attribute.Int("deals", len(deals)), attribute.Int("rows_skipped", skipped))

	log.Info().Str("date", day).Int("deals", len(deals)).Int("skipped", skipped).Dur("elapsed", time.Since(start)).Msg("day fetched")
	return deals
}

// download performs the single GET for date and returns the body text and HTTP status.
func (f *ArchiveFetcher) download(ctx context.Context, date time.Time) (string, int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ArchiveURL(date), nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", resp.StatusCode, fmt.Errorf("%w: status %d", ErrNoData, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > f.maxBody {
		return "", resp.StatusCode, fmt.Errorf("%w: body exceeds %d bytes", ErrBodyTooLarge, f.maxBody)
	}

	body := strings.TrimSpace(string(raw))
	if len(strings.Split(body, "\n")) < 2 {
		return "", resp.StatusCode, fmt.Errorf("%w: body has no data rows", ErrNoData)
	}

	return body, resp.StatusCode, nil
}
