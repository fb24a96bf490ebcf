package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWritePipelineError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	writePipelineError(rr, req, errors.New("Failed to fetch data. Status Code: 500, Response: boom"))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	want := `{"success":false,"error":"Failed to fetch data. Status Code: 500, Response: boom"}`
	if rr.Body.String() != want {
		t.Errorf("body = %s, want %s", rr.Body.String(), want)
	}
}

func TestWriteValidationError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	verr := &ValidationError{}
	verr.add("month", "field required")

	writeValidationError(rr, req, verr)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error != "month: field required" || len(body.Details) != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestWritePNG(t *testing.T) {
	rr := httptest.NewRecorder()
	writePNG(rr, []byte("\x89PNG"))
	if rr.Header().Get("Content-Type") != "image/png" || rr.Header().Get("Content-Length") != "4" {
		t.Errorf("headers = %v", rr.Header())
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()
	metrics := &securityMetrics{}
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if !rl.allow("198.51.100.7", now, metrics) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("198.51.100.7", now.Add(10*time.Second), metrics) {
		t.Error("fourth request in the window should be rejected")
	}
	if !rl.allow("198.51.100.8", now, metrics) {
		t.Error("other clients are limited independently")
	}
	if !rl.allow("198.51.100.7", now.Add(61*time.Second), metrics) {
		t.Error("a new window should reset the counter")
	}
	if metrics.rateLimitHits != 1 {
		t.Errorf("rateLimitHits = %d, want 1", metrics.rateLimitHits)
	}

	rl.cleanupStaleEntries(now.Add(time.Hour))
	if len(rl.clients) != 0 {
		t.Errorf("stale clients left: %d", len(rl.clients))
	}
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.5:4000", "", "203.0.113.5"},
		{"untrusted proxy header ignored", "203.0.113.5:4000", "198.51.100.1", "203.0.113.5"},
		{"trusted proxy", "10.0.0.2:4000", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad header", "10.0.0.2:4000", "garbage", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	metrics := &securityMetrics{}

	r := httptest.NewRequest(http.MethodGet, "/visualize-bar-chart/?month=1&year=2024", nil)
	r.Header.Set("User-Agent", "curl/8.5.0")
	if detectSuspiciousRequest(r, metrics) {
		t.Error("plain chart request flagged")
	}

	r = httptest.NewRequest(http.MethodGet, "/.env", nil)
	if !detectSuspiciousRequest(r, metrics) {
		t.Error("dotenv probe not flagged")
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "sqlmap/1.7")
	if !detectSuspiciousRequest(r, metrics) {
		t.Error("scanner user agent not flagged")
	}

	if metrics.suspiciousRequests != 2 {
		t.Errorf("suspiciousRequests = %d, want 2", metrics.suspiciousRequests)
	}
}
