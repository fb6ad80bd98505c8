package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cafe-system/internal/connections/rabbitmq"
	"cafe-system/internal/domain"
)

// Publisher announces committed order changes.
type Publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

type broker interface {
	Publish(ctx context.Context, exchange, key string, msg rabbitmq.Message) error
}

// AMQPPublisher publishes events to a fanout exchange.
type AMQPPublisher struct {
	client   broker
	exchange string
	timeout  time.Duration
}

func NewAMQPPublisher(client broker, exchange string) *AMQPPublisher {
	return &AMQPPublisher{client: client, exchange: exchange, timeout: 5 * time.Second}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.client.Publish(ctx, p.exchange, ev.Type, rabbitmq.Message{
		ID:            uuid.NewString(),
		CorrelationID: strconv.FormatInt(ev.OrderID, 10),
		Body:          body,
		Headers: map[string]any{
			"x-source":     "cafe-console",
			"x-changed-by": ev.ChangedBy,
		},
	})
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, domain.OrderEvent) error { return nil }
