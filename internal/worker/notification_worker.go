package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/product_marketplace/internal/delivery/events"
	"github.com/Pesokrava/product_marketplace/internal/domain"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
)

const (
	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	attemptTimeout = 5 * time.Second
)

// Notification is a message addressed to one user
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher delivers notifications
type Dispatcher interface {
	Send(ctx context.Context, n Notification) error
}

// Recipients resolves who an event concerns
type Recipients interface {
	ProductOwner(ctx context.Context, productID uuid.UUID) (*Recipient, error)
	Reporter(ctx context.Context, reportID uuid.UUID) (*Recipient, error)
}

// LogDispatcher writes notifications to the log instead of sending them
type LogDispatcher struct {
	logger *logger.Logger
}

// NewLogDispatcher creates a dispatcher that only logs
func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{logger: log}
}

// Send logs the notification
func (d *LogDispatcher) Send(_ context.Context, n Notification) error {
	d.logger.WithFields(map[string]any{
		"to":      n.To,
		"subject": n.Subject,
	}).Info(n.Body)
	return nil
}

// NotificationWorker turns moderation events into user notifications
type NotificationWorker struct {
	recipients Recipients
	dispatcher Dispatcher
	logger     *logger.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(recipients Recipients, dispatcher Dispatcher, log *logger.Logger) *NotificationWorker {
	return &NotificationWorker{
		recipients: recipients,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// HandleEvent processes one moderation event. Payloads that cannot be decoded
// are reported as events.ErrUnprocessable; lookup and delivery failures are
// returned as is so the message is redelivered.
func (w *NotificationWorker) HandleEvent(ctx context.Context, data []byte) error {
	var event domain.ModerationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: failed to unmarshal event: %v", events.ErrUnprocessable, err)
	}

	log := w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"timestamp":  event.Timestamp,
	})
	log.Info("Received moderation event")

	n, err := w.compose(ctx, event)
	if err != nil {
		return err
	}
	if n == nil {
		log.Debug("No recipient for event, skipping")
		return nil
	}

	return w.dispatch(ctx, *n)
}

// compose builds the notification for an event; nil means nobody is notified
func (w *NotificationWorker) compose(ctx context.Context, event domain.ModerationEvent) (*Notification, error) {
	switch event.EventType {
	case domain.EventReportCreated, domain.EventReportResolved:
		if event.ReportID == nil {
			return nil, fmt.Errorf("%w: %s without report_id", events.ErrUnprocessable, event.EventType)
		}
		to, err := w.recipients.Reporter(ctx, *event.ReportID)
		if err != nil || to == nil {
			return nil, err
		}

		if event.EventType == domain.EventReportCreated {
			return &Notification{
				To:      to.Email,
				Subject: "We received your report",
				Body:    fmt.Sprintf("Hi %s, your %s report %s is awaiting review.", to.Name, event.ReportType, event.ReportID),
			}, nil
		}
		return &Notification{
			To:      to.Email,
			Subject: "Your report was reviewed",
			Body:    fmt.Sprintf("Hi %s, your report %s was %s by a moderator.", to.Name, event.ReportID, event.Status),
		}, nil

	case domain.EventProductApprovalChanged:
		if event.ProductID == nil || event.Approved == nil {
			return nil, fmt.Errorf("%w: %s without product_id or approved", events.ErrUnprocessable, event.EventType)
		}
		to, err := w.recipients.ProductOwner(ctx, *event.ProductID)
		if err != nil || to == nil {
			return nil, err
		}

		state := "withdrawn from the catalog"
		if *event.Approved {
			state = "approved"
		}
		return &Notification{
			To:      to.Email,
			Subject: "Product status changed",
			Body:    fmt.Sprintf("Hi %s, your product %s was %s.", to.Name, event.ProductID, state),
		}, nil

	default:
		return nil, nil
	}
}

// dispatch sends a notification with exponential backoff between attempts
func (w *NotificationWorker) dispatch(ctx context.Context, n Notification) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"to":         n.To,
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying notification")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}

			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := w.dispatcher.Send(attemptCtx, n)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err
	}

	w.logger.WithFields(map[string]any{
		"to":          n.To,
		"max_retries": maxRetries,
	}).Error("Notification failed after all retries", lastErr)

	return fmt.Errorf("failed to dispatch notification: %w", lastErr)
}
