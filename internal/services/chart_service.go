package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wastechart/internal/core"
	"wastechart/internal/export"
	"wastechart/internal/log"
	"wastechart/internal/render"
)

// RecordSource fetches one month of waste records from the remote API.
type RecordSource interface {
	FetchMonth(ctx context.Context, month, year int) ([]core.WasteRecord, error)
}

// EventPublisher announces finished renders. Implemented by *amqp.Client.
type EventPublisher interface {
	PublishRenderEvent(ctx context.Context, e core.RenderEvent) error
}

// ChartKinds are the chart outputs in the order they are listed to users.
var ChartKinds = []core.RenderKind{core.KindBar, core.KindPie, core.KindPieCategories}

// ChartService runs the fetch, shape and render chain for one request.
type ChartService struct {
	source    RecordSource
	renderer  *render.Renderer
	publisher EventPublisher
	logger    *log.Logger
	now       func() time.Time
}

func NewChartService(source RecordSource, renderer *render.Renderer, publisher EventPublisher, logger *log.Logger) *ChartService {
	return &ChartService{
		source:    source,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentRender),
		now:       time.Now,
	}
}

// Records fetches the raw records for p.
func (s *ChartService) Records(ctx context.Context, p core.Period) ([]core.WasteRecord, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.source.FetchMonth(ctx, p.Month, p.Year)
}

// Chart fetches p and renders it as kind.
func (s *ChartService) Chart(ctx context.Context, kind core.RenderKind, p core.Period) ([]byte, error) {
	start := s.now()
	img, err := s.chart(ctx, kind, p)
	s.record(ctx, kind, p, start, len(img), err)
	return img, err
}

func (s *ChartService) chart(ctx context.Context, kind core.RenderKind, p core.Period) ([]byte, error) {
	records, err := s.Records(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.renderer.Records(kind, records, p)
}

// Charts fetches p once and renders every kind concurrently. A failed kind
// is reported in the error map and does not cancel the others.
func (s *ChartService) Charts(ctx context.Context, p core.Period, kinds []core.RenderKind) (map[core.RenderKind][]byte, map[core.RenderKind]error, error) {
	records, err := s.Records(ctx, p)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu     sync.Mutex
		images = make(map[core.RenderKind][]byte, len(kinds))
		errs   = make(map[core.RenderKind]error)
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			start := s.now()
			img, err := s.renderer.Records(kind, records, p)
			s.record(gctx, kind, p, start, len(img), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[kind] = err
				return nil
			}
			images[kind] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return images, errs, nil
}

// Tables fetches p and shapes it for tabular export.
func (s *ChartService) Tables(ctx context.Context, p core.Period) (export.Tables, error) {
	records, err := s.Records(ctx, p)
	if err != nil {
		return export.Tables{}, err
	}
	return export.BuildTables(records, p), nil
}

// Workbook fetches p and returns it as an XLSX file.
func (s *ChartService) Workbook(ctx context.Context, p core.Period) ([]byte, error) {
	start := s.now()
	data, err := s.workbook(ctx, p)
	s.record(ctx, core.KindWorkbook, p, start, len(data), err)
	return data, err
}

func (s *ChartService) workbook(ctx context.Context, p core.Period) ([]byte, error) {
	t, err := s.Tables(ctx, p)
	if err != nil {
		return nil, err
	}
	data, err := export.Workbook(t)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return data, nil
}

// record logs the outcome and publishes a render event. Publish failures
// are logged only.
func (s *ChartService) record(ctx context.Context, kind core.RenderKind, p core.Period, start time.Time, size int, renderErr error) {
	log.NewStructuredLogger(s.logger).LogRender(ctx, string(kind), p.Month, p.Year, size, renderErr)

	if s.publisher == nil {
		return
	}
	event := core.RenderEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		Month:      p.Month,
		Year:       p.Year,
		Success:    renderErr == nil,
		Bytes:      size,
		DurationMs: s.now().Sub(start).Milliseconds(),
		Timestamp:  start.UTC(),
	}
	if renderErr != nil {
		event.Error = renderErr.Error()
	}
	if err := s.publisher.PublishRenderEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish render event",
			log.FieldEventID, event.ID,
			log.FieldError, err)
	}
}
