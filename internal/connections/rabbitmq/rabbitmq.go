package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cafe-system/internal/config"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	exchange string
}

// URL renders the AMQP URL for cfg with credentials and vhost escaped.
func URL(cfg config.RabbitMQConfig) string {
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		url.PathEscape(cfg.User), url.PathEscape(cfg.Password), cfg.Host, cfg.Port, url.PathEscape(vhost))
}

// Dial connects, opens a channel in confirm mode and declares the fanout
// exchange events are published to.
func Dial(cfg config.RabbitMQConfig) (*Client, error) {
	conn, err := amqp.Dial(URL(cfg))
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", cfg.Exchange, err)
	}

	return &Client{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Ping reports whether the broker connection is still open.
func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Message is a persistent JSON publication.
type Message struct {
	ID            string
	CorrelationID string
	Body          []byte
	Headers       amqp.Table
}

// Publish sends msg to exchange and waits for the broker's confirmation of
// that publishing. A confirmation arriving after ctx is done is discarded.
func (c *Client) Publish(ctx context.Context, exchange, key string, msg Message) error {
	conf, err := c.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   "application/json",
			MessageId:     msg.ID,
			CorrelationId: msg.CorrelationID,
			Timestamp:     time.Now().UTC(),
			Headers:       msg.Headers,
			Body:          msg.Body,
		},
	)
	if err != nil {
		return err
	}
	if conf == nil {
		return errors.New("channel is not in confirm mode")
	}
	return waitConfirm(ctx, conf)
}

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// waitConfirm waits for the confirmation of one publishing.
func waitConfirm(ctx context.Context, conf confirmation) error {
	ack, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ack {
		return errors.New("publish NACK from broker")
	}
	return nil
}

// Subscribe declares a durable queue bound to the client's exchange and
// starts consuming it with manual acks.
func (c *Client) Subscribe(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if _, err := c.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := c.ch.QueueBind(queue, "", c.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s to %s: %w", queue, c.exchange, err)
	}
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return c.ch.Consume(queue, consumer, false, false, false, false, nil)
}
