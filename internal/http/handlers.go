package http

import (
	"context"
	"net/http"

	"wastechart/internal/core"
	"wastechart/internal/log"
)

// ChartProvider runs the request pipelines. Implemented by *services.ChartService.
type ChartProvider interface {
	Records(ctx context.Context, p core.Period) ([]core.WasteRecord, error)
	Chart(ctx context.Context, kind core.RenderKind, p core.Period) ([]byte, error)
	Workbook(ctx context.Context, p core.Period) ([]byte, error)
}

// HistoryReader lists stored render events. Implemented by *storage.SQLiteRepository.
type HistoryReader interface {
	ListRenderEvents(ctx context.Context, limit int) ([]core.RenderEvent, error)
	Ping(ctx context.Context) error
}

func (s *Server) handleFetchData(w http.ResponseWriter, r *http.Request) {
	p, verr := ParsePeriod(r.URL.Query())
	if verr != nil {
		writeValidationError(w, r, verr)
		return
	}

	records, err := s.charts.Records(r.Context(), p)
	if err != nil {
		s.logPipelineError(r, core.RenderKind("data"), p, err)
		writePipelineError(w, r, err)
		return
	}
	writeData(w, r, records)
}

// handleChart serves one chart kind as PNG.
func (s *Server) handleChart(kind core.RenderKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, verr := ParsePeriod(r.URL.Query())
		if verr != nil {
			writeValidationError(w, r, verr)
			return
		}

		img, err := s.charts.Chart(r.Context(), kind, p)
		if err != nil {
			s.logPipelineError(r, kind, p, err)
			writePipelineError(w, r, err)
			return
		}
		writePNG(w, img)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	p, verr := ParsePeriod(r.URL.Query())
	if verr != nil {
		writeValidationError(w, r, verr)
		return
	}

	data, err := s.charts.Workbook(r.Context(), p)
	if err != nil {
		s.logPipelineError(r, core.KindWorkbook, p, err)
		writePipelineError(w, r, err)
		return
	}
	writeWorkbook(w, p, data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, r, "history is disabled")
		return
	}
	limit, verr := ParseLimit(r.URL.Query())
	if verr != nil {
		writeValidationError(w, r, verr)
		return
	}

	events, err := s.history.ListRenderEvents(r.Context(), limit)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "History query failed", log.FieldError, err)
		writePipelineError(w, r, err)
		return
	}
	writeData(w, r, events)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.history != nil {
		if err := s.history.Ping(r.Context()); err != nil {
			log.NewStructuredLogger(log.FromContext(r.Context())).
				LogError(r.Context(), "Readiness check failed", err, log.ComponentStorage, "ping", nil)
			http.Error(w, "history store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) logPipelineError(r *http.Request, kind core.RenderKind, p core.Period, err error) {
	fields := log.NewFields().
		WithKind(string(kind)).
		WithPeriod(p.Month, p.Year).
		WithError(err)
	log.FromContext(r.Context()).WarnContext(r.Context(), "Request pipeline failed", fields.ToSlice()...)
}
