package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/pkg/logger"
	"github.com/jwalitptl/legal-services-api/pkg/messaging"
	"github.com/jwalitptl/legal-services-api/pkg/metrics"
	"github.com/jwalitptl/legal-services-api/pkg/notify"
)

type NotifierConfig struct {
	Channel      string
	StaffAddress string
	MaxRetries   int
	RetryDelay   time.Duration
}

// Notifier mails staff and clients about new inquiries received on the
// broker channel.
type Notifier struct {
	broker  messaging.Broker
	sender  notify.Sender
	config  NotifierConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewNotifier(broker messaging.Broker, sender notify.Sender, config NotifierConfig, log *logger.Logger, m *metrics.Metrics) *Notifier {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{
		broker:  broker,
		sender:  sender,
		config:  config,
		logger:  log,
		metrics: m,
	}
}

// Run consumes messages until ctx is cancelled or the subscription closes.
func (n *Notifier) Run(ctx context.Context) error {
	msgs, err := n.broker.Subscribe(ctx, n.config.Channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.config.Channel, err)
	}

	n.logger.Info("Notifier started", "channel", n.config.Channel)
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Notifier shutting down")
			return nil
		case data, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := n.Handle(ctx, data); err != nil {
				n.logger.Error(err, "Failed to handle message")
			}
		}
	}
}

// Handle processes a single raw broker message. Unknown message types are
// ignored.
func (n *Notifier) Handle(ctx context.Context, data []byte) error {
	msg, err := messaging.Decode(data)
	if err != nil {
		return err
	}
	if msg.Type != model.EventInquiryCreated {
		n.logger.Debug("Ignoring message", "type", msg.Type)
		return nil
	}

	var event model.InquiryCreatedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("failed to decode inquiry event: %w", err)
	}

	var failed int
	for _, mail := range notify.InquiryMessages(&event, n.config.StaffAddress) {
		if err := n.send(ctx, mail); err != nil {
			failed++
			n.logger.Error(err, "Failed to send notification after retries",
				"inquiry_id", event.InquiryID,
				"subject", mail.Subject,
			)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d notification(s) for inquiry %d not delivered", failed, event.InquiryID)
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, mail *notify.Message) error {
	var sendErr error
	for attempt := 0; attempt < n.config.MaxRetries; attempt++ {
		if attempt > 0 {
			n.count("retried")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * n.config.RetryDelay):
			}
		}

		if sendErr = n.sender.Send(ctx, mail); sendErr == nil {
			n.count("sent")
			return nil
		}
		n.logger.Warn("Retry sending notification", "attempt", attempt+1, "error", sendErr.Error())
	}
	n.count("failed")
	return sendErr
}

func (n *Notifier) count(outcome string) {
	if n.metrics != nil {
		n.metrics.NotificationsDelivered.WithLabelValues(outcome).Inc()
	}
}
