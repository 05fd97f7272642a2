package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/flicky/gourmethub-api/internal/model"
)

const orderPlacedType = "order.placed"

// amqpPublisher is the part of *amqp.Channel the Publisher needs.
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends order.placed events to the order queue on the default
// exchange. Use a channel that is not shared with the consumer.
type Publisher struct {
	ch  amqpPublisher
	now func() time.Time
}

func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch, now: time.Now}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, msg model.OrderMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", orderQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.OrderID.String(),
		Type:         orderPlacedType,
		Timestamp:    p.now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order placed: %w", err)
	}
	return nil
}
