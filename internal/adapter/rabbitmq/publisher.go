package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dhruvxsingh/zenocon-bot/internal/interfaces"
)

// Order lifecycle events are fanned out for dashboard-side consumers; the
// bot never reads them back.
const orderEventsExchange = "order_events_fanout"

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.EventPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishOrderEvent(ctx context.Context, msg interfaces.OrderEventMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(orderEventsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.Publish(orderEventsExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// NopPublisher is used when the broker is disabled by config.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(ctx context.Context, msg interfaces.OrderEventMessage) error {
	return nil
}
