package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"wastechart/internal/core"
	"wastechart/internal/log"
)

// Options configures NewServer. History may be nil, which disables /history/.
type Options struct {
	Addr      string
	Charts    ChartProvider
	History   HistoryReader
	Logger    *log.Logger
	RateLimit int
}

type Server struct {
	http.Server
	charts      ChartProvider
	history     HistoryReader
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// NewServer wires the routes and middleware, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			// Writes include the remote login and fetch.
			WriteTimeout:   75 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		charts:      opts.Charts,
		history:     opts.History,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(opts.RateLimit),
		metrics:     &securityMetrics{},
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Chart routes report every failure in the JSON body, so only the
	// export is rate limited.
	mux.Handle("GET /fetch-data/", s.instrument(s.handleFetchData, false))
	mux.Handle("GET /visualize-bar-chart/", s.instrument(s.handleChart(core.KindBar), false))
	mux.Handle("GET /visualize-pie-chart/", s.instrument(s.handleChart(core.KindPie), false))
	mux.Handle("GET /visualize-pie-chart-categories/", s.instrument(s.handleChart(core.KindPieCategories), false))
	mux.Handle("GET /export-xlsx/", s.instrument(s.handleExportXLSX, true))
	mux.Handle("GET /history/", s.instrument(s.handleHistory, false))

	return s
}

// instrument wraps a handler with request logging, security headers and,
// when limited is set, per-IP rate limiting.
func (s *Server) instrument(next http.HandlerFunc, limited bool) http.Handler {
	inner := log.RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get(headerRequestID)
	})(next)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		id := requestID(r)
		r.Header.Set(headerRequestID, id)
		w.Header().Set(headerRequestID, id)

		ctx := r.Context()
		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(ctx, "Suspicious request",
				log.FieldRequestID, id,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
		}

		if limited && !s.rateLimiter.allow(clientIP, start, s.metrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, id,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, try again later"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; img-src 'self'")
		w.Header().Set("Referrer-Policy", "no-referrer")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		inner.ServeHTTP(rw, r)

		fields := log.NewFields().WithRequestID(id)
		log.NewStructuredLogger(s.logger.With(fields.ToSlice()...)).
			LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
	return log.Middleware(s.logger)(h)
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
