package activityservice

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/bloglist/internal/common"
)

// MockMessageConsumer hands out one channel per queue; tests feed deliveries into it.
type MockMessageConsumer struct {
	mock.Mock
	queues map[common.Queue]chan amqp.Delivery
	acks   *ackRecorder
}

func NewMockMessageConsumer() *MockMessageConsumer {
	return &MockMessageConsumer{
		queues: make(map[common.Queue]chan amqp.Delivery),
		acks:   &ackRecorder{},
	}
}

func (m *MockMessageConsumer) Consume(queue common.Queue, consumer string) (<-chan amqp.Delivery, error) {
	args := m.Called(queue, consumer)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	ch := make(chan amqp.Delivery, 8)
	m.queues[queue] = ch

	return ch, nil
}

func (m *MockMessageConsumer) Deliver(queue common.Queue, key common.BindingKey, body string) {
	m.queues[queue] <- amqp.Delivery{Acknowledger: m.acks, RoutingKey: string(key), Body: []byte(body)}
}

// ackRecorder counts settled deliveries and fails them with err when set.
type ackRecorder struct {
	mu    sync.Mutex
	err   error
	acks  int
	nacks int
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return a.err
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	return a.err
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *ackRecorder) failWith(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *ackRecorder) counts() (acks, nacks int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks, a.nacks
}
