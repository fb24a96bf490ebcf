package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wastechart/internal/core"
	"wastechart/internal/log"
)

// EventStore persists render events.
type EventStore interface {
	SaveRenderEvent(ctx context.Context, e core.RenderEvent) error
	CountRenderEvents(ctx context.Context) (int64, error)
}

// HistoryWorker writes render events consumed from the queue into the store.
type HistoryWorker struct {
	store  EventStore
	logger *log.Logger
}

func NewHistoryWorker(store EventStore, logger *log.Logger) *HistoryWorker {
	return &HistoryWorker{
		store:  store,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleRenderEvent stores one event. Returning an error makes the consumer
// requeue the message.
func (w *HistoryWorker) HandleRenderEvent(ctx context.Context, e *core.RenderEvent) error {
	if e == nil {
		return errors.New("nil render event")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	if err := w.store.SaveRenderEvent(ctx, *e); err != nil {
		return fmt.Errorf("save render event: %w", err)
	}

	w.logger.InfoContext(ctx, "Recorded render event",
		log.FieldEventID, e.ID,
		log.FieldKind, e.Kind,
		log.FieldMonth, e.Month,
		log.FieldYear, e.Year,
		log.FieldSuccess, e.Success)
	return nil
}

// StartupCheck verifies the store is readable before consuming starts.
func (w *HistoryWorker) StartupCheck(ctx context.Context) error {
	n, err := w.store.CountRenderEvents(ctx)
	if err != nil {
		return fmt.Errorf("count render events: %w", err)
	}
	w.logger.InfoContext(ctx, "History store ready", "events", n)
	return nil
}
