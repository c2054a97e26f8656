package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RetryCountHeader is the message header carrying the per-message delivery
// retry counter. Absent means zero.
const RetryCountHeader = "x-retry-count"

// Decision tells the transport what to do with a delivery after the handler
// has seen it.
type Decision int

const (
	// Ack confirms the message; it will not be redelivered.
	Ack Decision = iota
	// Reject drops the message without requeueing. Used for structurally
	// invalid payloads that no amount of retrying can fix.
	Reject
	// Retry republishes the message with an incremented retry counter and
	// acks the original delivery, so the counter survives at-least-once
	// redelivery.
	Retry
	// DeadLetter negatively acknowledges without requeue; the broker's
	// dead-letter configuration routes the message out of the normal path.
	DeadLetter
)

// Handler processes one delivery. The retry count is read from message
// metadata so that cap and dead-letter logic stays a pure function of
// (payload, retryCount).
type Handler func(body []byte, retryCount int) Decision

// Consumer wraps an AMQP connection with manual-ack consumption and a bounded
// number of unacknowledged messages in flight.
type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	prefetch int
}

// NewConsumer connects to RabbitMQ and applies the prefetch limit to the
// channel. A prefetch of zero leaves the broker default in place.
func NewConsumer(amqpURL string, prefetch int) (*Consumer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("set prefetch: %w", err)
		}
	}

	return &Consumer{conn: conn, ch: ch, prefetch: prefetch}, nil
}

// ConsumeWithBindings declares the exchange and queue, binds one routing key
// per handler, and dispatches deliveries until the channel closes.
func (c *Consumer) ConsumeWithBindings(exchange, queueName string, bindings map[string]Handler) error {
	if len(bindings) == 0 {
		return fmt.Errorf("no bindings provided")
	}

	if err := c.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	q, err := c.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	handlers := make(map[string]Handler)
	for routingKey, handler := range bindings {
		if handler == nil {
			continue
		}
		handlers[routingKey] = handler
		if err := c.ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return err
		}
	}

	msgs, err := c.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			handler, ok := handlers[d.RoutingKey]
			if !ok {
				log.Printf("level=warn component=rabbitmq_consumer msg=\"no handler for routing key; acknowledging to drop\" routing_key=%s", d.RoutingKey)
				d.Ack(false)
				continue
			}

			retryCount := retryCountFrom(d.Headers)

			switch handler(d.Body, retryCount) {
			case Ack:
				d.Ack(false)
			case Reject:
				d.Reject(false)
			case DeadLetter:
				d.Nack(false, false)
			case Retry:
				if err := c.republish(exchange, d, retryCount+1); err != nil {
					log.Printf("level=warn component=rabbitmq_consumer msg=\"republish failed; requeueing original\" routing_key=%s err=%v", d.RoutingKey, err)
					d.Nack(false, true)
					continue
				}
				d.Ack(false)
			}
		}
	}()

	return nil
}

// republish re-enqueues a delivery on its original routing key with the retry
// counter bumped, so the next delivery sees an accurate attempt number.
func (c *Consumer) republish(exchange string, d amqp.Delivery, retryCount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return c.ch.PublishWithContext(ctx, exchange, d.RoutingKey, false, false, amqp.Publishing{
		ContentType: d.ContentType,
		Timestamp:   time.Now(),
		Headers:     amqp.Table{RetryCountHeader: int32(retryCount)},
		Body:        d.Body,
	})
}

// retryCountFrom reads the retry counter from delivery headers, tolerating the
// integer widths different publishers use. Missing or malformed headers count
// as a first delivery.
func retryCountFrom(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[RetryCountHeader].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

// Close shuts down the channel and connection.
func (c *Consumer) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
