package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"

	"cafe-system/internal/common/logger"
	"cafe-system/internal/domain"
)

// Subscriber prints order events for front-of-house staff.
type Subscriber struct {
	out io.Writer
	lg  *logger.Logger
}

func NewSubscriber(out io.Writer) *Subscriber {
	return &Subscriber{out: out, lg: logger.New("notify")}
}

// Run handles deliveries until msgs is closed or ctx is done. Malformed
// messages are rejected without requeue.
func (s *Subscriber) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			s.handle(d)
		}
	}
}

func (s *Subscriber) handle(d amqp.Delivery) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		s.lg.Error("event_decode_failed", err, map[string]any{"message_id": d.MessageId})
		_ = d.Reject(false)
		return
	}
	if _, err := fmt.Fprintln(s.out, Describe(ev)); err != nil {
		s.lg.Error("event_print_failed", err, map[string]any{"order_id": ev.OrderID})
		_ = d.Nack(false, true)
		return
	}
	s.lg.Debug("event_received", map[string]any{"type": ev.Type, "order_id": ev.OrderID, "message_id": d.MessageId})
	_ = d.Ack(false)
}

// Describe renders ev as one human readable line.
func Describe(ev domain.OrderEvent) string {
	at := ev.Timestamp.Local().Format("15:04:05")
	switch ev.Type {
	case domain.EventOrderPlaced:
		return fmt.Sprintf("[%s] order %d placed by %s: %d item(s), total $%.2f", at, ev.OrderID, ev.Login, len(ev.Items), ev.Total)
	case domain.EventOrderPaid:
		return fmt.Sprintf("[%s] order %d marked paid by %s", at, ev.OrderID, ev.ChangedBy)
	case domain.EventItemStatusChanged:
		item := ev.ItemName
		if item == "" {
			item = "all items"
		}
		return fmt.Sprintf("[%s] order %d: %s now %q (by %s)", at, ev.OrderID, item, ev.Status, ev.ChangedBy)
	}
	return fmt.Sprintf("[%s] order %d: %s", at, ev.OrderID, ev.Type)
}
