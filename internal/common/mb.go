package common

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(queue Queue, consumer string) (<-chan amqp.Delivery, error)
}

const (
	UserExchange     Exchange   = "user_exchange"
	UserCreatedQueue Queue      = "user_created_queue"
	UserCreatedKey   BindingKey = "user.created"

	BlogExchange    Exchange   = "blog_exchange"
	BlogEventsQueue Queue      = "blog_events_queue"
	BlogCreatedKey  BindingKey = "blog.created"
	BlogDeletedKey  BindingKey = "blog.deleted"
)

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func BrokerURI(host, port, user, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", user, password, host, port)
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	err = mb.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

// SetupExchanges declares the user and blog exchanges together with durable queues bound to
// every routing key the services publish, so no event is dropped before a consumer attaches.
func SetupExchanges(mb *MessageBroker) error {
	bindings := []struct {
		exchange Exchange
		queue    Queue
		keys     []BindingKey
	}{
		{UserExchange, UserCreatedQueue, []BindingKey{UserCreatedKey}},
		{BlogExchange, BlogEventsQueue, []BindingKey{BlogCreatedKey, BlogDeletedKey}},
	}

	for _, b := range bindings {
		err := mb.ch.ExchangeDeclare(string(b.exchange), "direct", true, false, false, false, nil)
		if err != nil {
			return err
		}

		_, err = mb.ch.QueueDeclare(string(b.queue), true, false, false, false, nil)
		if err != nil {
			return err
		}

		for _, key := range b.keys {
			err = mb.ch.QueueBind(string(b.queue), string(key), string(b.exchange), false, nil)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

// Consume delivers the messages of queue. Deliveries must be acknowledged by the caller.
func (mb *MessageBroker) Consume(queue Queue, consumer string) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), consumer, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message: %w", err)
	}

	return msgs, nil
}

// NopProducer discards every message. It stands in for the broker when none is configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, []byte, BindingKey, Exchange) error {
	return nil
}
