package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sharvarianand/tasktuner/pkg/observability"
)

// DefaultQueue is the durable queue the worker drains.
const DefaultQueue = "tasktuner.rankings"

// Delivery outcomes, recorded on MetricEventsConsumed.
const (
	OutcomeAcked    = "acked"
	OutcomeRequeued = "requeued"
	OutcomeRejected = "rejected"
)

// RabbitMQConsumerConfig configures the RabbitMQ consumer.
type RabbitMQConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

// RabbitMQConsumer feeds a durable queue into a ConsumerRegistry. The queue is
// bound to every routing key the registry knows at construction time.
type RabbitMQConsumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	prefetch int
	registry *ConsumerRegistry
	metrics  observability.Metrics
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewRabbitMQConsumer dials the broker, declares the exchange and queue, and
// binds the registry's routing keys.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry, metrics observability.Metrics, logger *slog.Logger) (*RabbitMQConsumer, error) {
	if registry == nil {
		return nil, errors.New("consumer registry is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	closeAll := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	for _, key := range registry.EventTypes() {
		if err := ch.QueueBind(cfg.Queue, key, cfg.Exchange, false, nil); err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	logger.Info("RabbitMQ consumer connected",
		"exchange", cfg.Exchange,
		"queue", cfg.Queue,
		"routing_keys", registry.EventTypes(),
	)

	return &RabbitMQConsumer{
		conn:     conn,
		channel:  ch,
		queue:    cfg.Queue,
		prefetch: cfg.Prefetch,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *RabbitMQConsumer) Run(ctx context.Context) error {
	if err := c.channel.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("consuming events", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("delivery channel closed")
			}
			c.settle(msg, c.handle(ctx, msg))
		}
	}
}

// handle dispatches one delivery. It returns the outcome to settle with.
func (c *RabbitMQConsumer) handle(ctx context.Context, msg amqp.Delivery) string {
	event := &Envelope{}
	if err := json.Unmarshal(msg.Body, event); err != nil {
		c.logger.Error("dropping undecodable event", "routing_key", msg.RoutingKey, "error", err)
		return OutcomeRejected
	}
	if event.RoutingKey == "" {
		event.RoutingKey = msg.RoutingKey
	}

	if err := c.registry.Dispatch(ctx, event); err != nil {
		// One retry, then the message is dropped.
		if msg.Redelivered {
			return OutcomeRejected
		}
		return OutcomeRequeued
	}
	return OutcomeAcked
}

func (c *RabbitMQConsumer) settle(msg amqp.Delivery, outcome string) {
	var err error
	switch outcome {
	case OutcomeAcked:
		err = msg.Ack(false)
	case OutcomeRequeued:
		err = msg.Nack(false, true)
	default:
		err = msg.Reject(false)
	}
	if err != nil {
		c.logger.Error("failed to settle delivery", "outcome", outcome, "error", err)
	}
	c.metrics.Counter(observability.MetricEventsConsumed, 1,
		observability.T("routing_key", msg.RoutingKey),
		observability.T("outcome", outcome),
	)
}

// Ping reports whether the broker connection is still open.
func (c *RabbitMQConsumer) Ping(_ context.Context) error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

// Close closes the channel and the connection.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing channel", "error", err)
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn.Close()
	}
	return nil
}
