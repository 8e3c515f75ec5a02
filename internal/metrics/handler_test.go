package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHandler_ExposesRecordedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordClientRequest("login", 200, time.Millisecond)
	c.RecordHTTPRequest(http.MethodPost, "/api/attendance/check-in", 201, 2*time.Millisecond)
	c.RecordAbsencesMarked(3)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`atency_client_requests_total{operation="login",status_code="200"} 1`,
		`route="/api/attendance/check-in"`,
		"atency_absences_marked_total 3",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("スクレイプ結果に %q が含まれるべき", want)
		}
	}
}

func TestHandler_EmptyRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(prometheus.NewRegistry()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
