package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUpstreamFetchTotal_Increments(t *testing.T) {
	before := testutil.ToFloat64(UpstreamFetchTotal.WithLabelValues(OutcomeNoData))
	UpstreamFetchTotal.WithLabelValues(OutcomeNoData).Inc()
	after := testutil.ToFloat64(UpstreamFetchTotal.WithLabelValues(OutcomeNoData))
	if after != before+1 {
		t.Fatalf("counter did not increment: before=%v after=%v", before, after)
	}
}

func TestHandler_ExposesNamespace(t *testing.T) {
	RunsTotal.WithLabelValues("completed").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "dealpulse_runs_total") {
		t.Fatalf("metrics output missing dealpulse_runs_total")
	}
}
