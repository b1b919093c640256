package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	return rec.Body.String()
}

func TestObserve(t *testing.T) {
	Observe("GET", "GET /api/armor", http.StatusOK, 3*time.Millisecond)

	body := scrape(t)
	want := `armory_http_requests_total{method="GET",route="GET /api/armor",status="200"}`
	if !strings.Contains(body, want) {
		t.Errorf("expected %s in output", want)
	}
	if !strings.Contains(body, "armory_http_request_duration_seconds_bucket") {
		t.Error("expected request duration histogram in output")
	}
}

func TestHandlerExposesArmorMetrics(t *testing.T) {
	ViewsComputed.Inc()
	UpdateBatches.WithLabelValues("applied").Inc()

	body := scrape(t)
	for _, name := range []string{"armory_views_computed_total", `armory_update_batches_total{result="applied"}`} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in output", name)
		}
	}
}
