package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func filterContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/transactions"+query, nil)
	return c
}

func TestParseFilter(t *testing.T) {
	f, err := parseFilter(filterContext(t, ""))
	if err != nil {
		t.Fatalf("parseFilter() error: %v", err)
	}
	if f.Search != "" || f.Type != "" || f.Start != nil || f.End != nil || f.LastDays != 0 {
		t.Fatalf("empty query filter = %+v, want zero value", f)
	}

	f, err = parseFilter(filterContext(t, "?search=rent&type=expense&last_days=7"))
	if err != nil {
		t.Fatalf("parseFilter() error: %v", err)
	}
	if f.Search != "rent" || f.Type != "expense" || f.LastDays != 7 {
		t.Fatalf("filter = %+v", f)
	}

	f, err = parseFilter(filterContext(t, "?start=2025-06-01T00:00:00Z&end=2025-06-10T00:00:00Z"))
	if err != nil {
		t.Fatalf("parseFilter() error: %v", err)
	}
	if f.Start == nil || f.End == nil {
		t.Fatalf("range filter = %+v, want both bounds set", f)
	}
	if !f.Start.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", f.Start)
	}
}

func TestParseFilterRejections(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"start without end", "?start=2025-06-01T00:00:00Z"},
		{"end without start", "?end=2025-06-10T00:00:00Z"},
		{"malformed start", "?start=june&end=2025-06-10T00:00:00Z"},
		{"malformed end", "?start=2025-06-01T00:00:00Z&end=tomorrow"},
		{"non-numeric last_days", "?last_days=week"},
		{"negative last_days", "?last_days=-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFilter(filterContext(t, tt.query)); err == nil {
				t.Fatalf("parseFilter(%q) accepted an invalid filter", tt.query)
			}
		})
	}
}
