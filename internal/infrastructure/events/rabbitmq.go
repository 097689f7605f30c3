package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"newsletter-sendy-layer/internal/domain"
	"newsletter-sendy-layer/internal/ports"
)

// RabbitMQConfig holds the broker topology for subscriber events.
type RabbitMQConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

// DefaultRabbitMQConfig returns the stock topology.
func DefaultRabbitMQConfig(url string) RabbitMQConfig {
	return RabbitMQConfig{
		URL:        url,
		Exchange:   "newsletter",
		RoutingKey: "subscriber.subscribed",
		QueueName:  "newsletter.subscribed",
	}
}

// RabbitMQPublisher publishes subscriber events to a durable exchange so
// analytics and downstream consumers can react without coupling to this
// service.
type RabbitMQPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

// NewRabbitMQPublisher connects to the broker and declares the topology.
func NewRabbitMQPublisher(cfg RabbitMQConfig, logger zerolog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info().
		Str("exchange", cfg.Exchange).
		Str("queue", cfg.QueueName).
		Str("routing_key", cfg.RoutingKey).
		Msg("Connected to rabbitmq")

	return &RabbitMQPublisher{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// PublishSubscribed implements ports.EventPublisher.
func (p *RabbitMQPublisher) PublishSubscribed(ctx context.Context, event *domain.SubscriberEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal subscriber event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("publish subscriber event: %w", err)
	}

	p.logger.Debug().
		Str("context", event.Context).
		Str("list_id", event.ListID).
		Msg("Published subscriber event")

	return nil
}

// Close shuts down the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)
