package order

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockLowHandler reacts to checkout draining a product to or below its
// alert threshold. It currently raises an operator-facing log line; a
// notifier can be attached for other channels
type StockLowHandler struct {
	logger   *zap.Logger
	notifier StockLowNotifier
}

// StockLowNotifier is the interface for forwarding stock alerts.
// Implementations can support different channels (email, webhook, etc.)
type StockLowNotifier interface {
	// NotifyStockLow sends a notification for a low-stock product
	NotifyStockLow(ctx context.Context, notification StockLowNotification) error
}

// StockLowNotification represents a low-stock alert
type StockLowNotification struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
	Threshold int    `json:"threshold"`
}

// NewStockLowHandler creates a new handler for low-stock events
func NewStockLowHandler(logger *zap.Logger) *StockLowHandler {
	return &StockLowHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for forwarding alerts
func (h *StockLowHandler) WithNotifier(notifier StockLowNotifier) *StockLowHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockLowHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductStockLow}
}

// Handle processes a ProductStockLowEvent
func (h *StockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	stockEvent, ok := event.(*catalog.ProductStockLowEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductStockLow),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductStockLow, event.EventType())
	}

	h.logger.Warn("product stock low",
		zap.String("product_id", stockEvent.ProductID.String()),
		zap.String("name", stockEvent.Name),
		zap.Int("remaining", stockEvent.Remaining),
		zap.Int("threshold", stockEvent.Threshold),
	)

	if h.notifier != nil {
		notification := StockLowNotification{
			ProductID: stockEvent.ProductID.String(),
			Name:      stockEvent.Name,
			Remaining: stockEvent.Remaining,
			Threshold: stockEvent.Threshold,
		}
		if err := h.notifier.NotifyStockLow(ctx, notification); err != nil {
			h.logger.Error("failed to send stock low notification",
				zap.String("product_id", notification.ProductID),
				zap.Error(err),
			)
			// notification failure does not fail the event handling
		}
	}

	return nil
}

// Ensure StockLowHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockLowHandler)(nil)
