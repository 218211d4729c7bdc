package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/dashboard")

	h := m.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.RecordingsWritten.Inc()
	m.ExportsServed.WithLabelValues("zip").Inc()

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := m.Handler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"hfvoice_http_requests_total",
		"hfvoice_recordings_written_total",
		"hfvoice_exports_served_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
