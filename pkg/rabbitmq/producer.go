/**
 * @description
 * This package provides a simple producer for publishing invest-service events
 * to RabbitMQ. Downstream consumers (notification emails, analytics) subscribe
 * to the `invest.events` topic exchange.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange all invest-service events go through.
const ExchangeName = "invest.events"

// Routing keys for published events.
const (
	RoutingKeyEarningsCredited    = "earnings.credited"
	RoutingKeyTransactionRecorded = "transaction.recorded"
)

// EarningsCreditedEvent is published after a subscription's daily profit has
// been committed to the ledger.
type EarningsCreditedEvent struct {
	UserID         uuid.UUID `json:"user_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Amount         int64     `json:"amount"`
	RunDate        time.Time `json:"run_date"`
	Timestamp      time.Time `json:"timestamp"`
}

// TransactionRecordedEvent is published after a deposit, withdrawal or
// subscription purchase has been committed.
type TransactionRecordedEvent struct {
	UserID        uuid.UUID `json:"user_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel for publishing messages.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// EventProducerFallback is a minimal no-op publisher used when RabbitMQ is
// unavailable at startup. Events are dropped with a warning; the ledger itself
// is unaffected.
type EventProducerFallback struct{}

func (p *EventProducerFallback) Publish(ctx context.Context, routingKey string, body interface{}) error {
	log.Printf("level=warn component=rabbitmq_producer mode=fallback msg=\"publish skipped\" routing_key=%s", routingKey)
	return nil
}

func (p *EventProducerFallback) Close() {}

// NewEventProducer creates and returns a new EventProducer connected to the
// broker, with the topic exchange declared.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	// Use a bounded dial timeout so startup does not hang indefinitely
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &EventProducer{conn: conn, channel: channel}, nil
}

// Publish marshals the body to JSON and publishes it to the events exchange.
func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		},
	)
}

// Close shuts down the channel and connection.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
