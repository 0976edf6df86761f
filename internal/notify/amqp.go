package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher is the subset of *amqp.Channel used to enqueue messages.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPMailer hands messages to a durable queue; cmd/mailer delivers them.
type AMQPMailer struct {
	ch    Publisher
	queue string
}

// NewAMQPMailer publishes to queue on the default exchange.
func NewAMQPMailer(ch Publisher, queue string) *AMQPMailer {
	return &AMQPMailer{ch: ch, queue: queue}
}

func (m *AMQPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	err = m.ch.Publish("", m.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// DialAMQP opens a connection and channel and declares queue as durable.
func DialAMQP(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return conn, ch, nil
}

// ErrDeliveriesClosed is returned by Consume when the broker closes the channel.
var ErrDeliveriesClosed = errors.New("amqp deliveries channel closed")

// Consume delivers queued messages through mailer until ctx is done.
// Undeliverable messages are rejected without requeue.
func Consume(ctx context.Context, ch *amqp.Channel, queue string, mailer Mailer, logger *zap.Logger) error {
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			handleDelivery(ctx, d, mailer, logger)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, mailer Mailer, logger *zap.Logger) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		logger.Error("discarding malformed notification", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if err := mailer.Send(ctx, msg); err != nil {
		logger.Error("notification delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
