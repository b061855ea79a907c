package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Pesokrava/product_marketplace/internal/config"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
)

const (
	fetchBatchSize = 10
	fetchMaxWait   = 5 * time.Second
	fetchErrDelay  = 5 * time.Second
)

// ErrUnprocessable marks a message that can never succeed; it is terminated
// instead of redelivered
var ErrUnprocessable = errors.New("unprocessable message")

// Handler processes one message payload
type Handler func(ctx context.Context, data []byte) error

// Consumer pulls moderation events from the durable JetStream consumer
type Consumer struct {
	nc     *nats.Conn
	sub    *nats.Subscription
	logger *logger.Logger
}

// NewConsumer connects to NATS, ensures stream and durable consumer, and
// binds a pull subscription to it
func NewConsumer(cfg *config.Config, log *logger.Logger) (*Consumer, error) {
	nc, err := connect(cfg.NATS.URL, "marketplace-notifier", log)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streams := NewStreamConfig(js, cfg.NATS.Subject, log)
	if err := streams.EnsureStream(); err != nil {
		nc.Close()
		return nil, err
	}
	if err := streams.EnsureConsumer(); err != nil {
		nc.Close()
		return nil, err
	}

	sub, err := js.PullSubscribe(cfg.NATS.Subject, ConsumerName, nats.Bind(StreamName, ConsumerName), nats.ManualAck())
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to JetStream consumer: %w", err)
	}

	log.WithFields(map[string]any{
		"stream":   StreamName,
		"consumer": ConsumerName,
	}).Info("Subscribed to JetStream consumer")

	return &Consumer{
		nc:     nc,
		sub:    sub,
		logger: log,
	}, nil
}

// Run fetches batches until ctx is cancelled. Successful messages are acked,
// unprocessable ones terminated and all other failures NAKed for redelivery.
func (c *Consumer) Run(ctx context.Context, handle Handler) {
	for {
		if ctx.Err() != nil {
			return
		}

		msgs, err := c.sub.Fetch(fetchBatchSize, nats.MaxWait(fetchMaxWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			c.logger.Error("Failed to fetch messages from JetStream", err)

			select {
			case <-time.After(fetchErrDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, msg := range msgs {
			c.settle(msg, handle(ctx, msg.Data))
		}
	}
}

func (c *Consumer) settle(msg *nats.Msg, err error) {
	switch {
	case err == nil:
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Error("Failed to ACK message", ackErr)
		}
	case errors.Is(err, ErrUnprocessable):
		c.logger.Error("Dropping unprocessable message", err)
		if termErr := msg.Term(); termErr != nil {
			c.logger.Error("Failed to terminate message", termErr)
		}
	default:
		c.logger.Error("Failed to handle message, requesting redelivery", err)
		if nakErr := msg.Nak(); nakErr != nil {
			c.logger.Error("Failed to NACK message", nakErr)
		}
	}
}

// Close unsubscribes and closes the NATS connection
func (c *Consumer) Close() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.logger.Warnf("Failed to unsubscribe from NATS: %v", err)
		}
	}
	if c.nc != nil {
		c.nc.Close()
		c.logger.Info("NATS consumer connection closed")
	}
}
