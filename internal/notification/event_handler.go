package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deevseek/washcorner/internal/core/events"
	"github.com/deevseek/washcorner/internal/core/metrics"
)

type Enqueuer interface {
	Enqueue(job Job) bool
}

// EventHandler turns transaction status changes into WhatsApp messages.
type EventHandler struct {
	templates *Templates
	queue     Enqueuer
	logger    *slog.Logger
}

func NewEventHandler(templates *Templates, queue Enqueuer, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		templates: templates,
		queue:     queue,
		logger:    logger,
	}
}

func (h *EventHandler) HandleTransactionStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.TransactionStatusChangedEvent)
	if !ok {
		h.logger.Error("invalid event type for status change handler", "event_type", event.EventType())
		return fmt.Errorf("expected TransactionStatusChangedEvent, got %T", event)
	}

	if changed.CustomerPhone == "" {
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationSkipped).Inc()
		h.logger.Debug("no customer phone, skipping notification",
			"transaction_id", changed.TransactionID,
			"tracking_code", changed.TrackingCode)
		return nil
	}

	text, err := h.templates.Render(Message{
		TrackingCode: changed.TrackingCode,
		CustomerName: changed.CustomerName,
		Services:     changed.Services,
		Status:       changed.Status,
		Total:        changed.Total,
	})
	if err != nil {
		return fmt.Errorf("render notification for transaction %d: %w", changed.TransactionID, err)
	}

	h.queue.Enqueue(Job{
		Target:       changed.CustomerPhone,
		Message:      text,
		TrackingCode: changed.TrackingCode,
		Status:       changed.Status,
	})
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeTransactionStatusChanged, h.HandleTransactionStatusChanged)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeTransactionStatusChanged})
}
