package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hotel-reservation/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes reservation notifications to a durable queue on the
// default exchange. The connection is dialed lazily and redialed when closed.
type AMQPNotifier struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPNotifier(url, queue string) *AMQPNotifier {
	return &AMQPNotifier{url: url, queue: queue}
}

func (n *AMQPNotifier) Notify(ctx context.Context, msg shared.Notification) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ch, err := n.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		n.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", n.queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         msg.Kind,
		MessageId:    msg.ReservationID.String() + ":" + msg.Kind,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", n.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Kind, err)
	}
	return nil
}

func (n *AMQPNotifier) channel() (*amqp.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil || n.conn.IsClosed() {
		conn, err := amqp.Dial(n.url)
		if err != nil {
			return nil, fmt.Errorf("dial amqp: %w", err)
		}
		n.conn = conn
	}

	ch, err := n.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	return ch, nil
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil || n.conn.IsClosed() {
		return nil
	}
	return n.conn.Close()
}
