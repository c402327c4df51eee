package activityservice

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/sushihentaime/bloglist/internal/common"
)

const consumerName = "activity"

func NewActivityService(mb common.MessageConsumer, size int, logger *zap.Logger) *ActivityService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ActivityService{
		mb:     mb,
		feed:   NewFeed(size),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start consumes the user and blog event queues until Close is called.
func (s *ActivityService) Start() error {
	for _, queue := range []common.Queue{common.UserCreatedQueue, common.BlogEventsQueue} {
		msgs, err := s.mb.Consume(queue, consumerName+"."+string(queue))
		if err != nil {
			return err
		}

		s.wg.Add(1)
		go s.listen(queue, msgs)
	}

	return nil
}

func (s *ActivityService) listen(queue common.Queue, msgs <-chan amqp.Delivery) {
	defer s.wg.Done()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.handle(msg)

		case <-s.ctx.Done():
			s.logger.Info("stopping activity consumer", zap.String("queue", string(queue)))
			return
		}
	}
}

func (s *ActivityService) handle(msg amqp.Delivery) {
	var a Activity

	err := json.Unmarshal(msg.Body, &a)
	if err != nil {
		s.logger.Error("could not unmarshal message", zap.String("key", msg.RoutingKey), zap.Error(err))
		if err := msg.Nack(false, false); err != nil {
			s.logger.Error("could not nack message", zap.String("key", msg.RoutingKey), zap.Error(err))
		}
		return
	}

	a.Kind = msg.RoutingKey
	if a.Kind == string(common.UserCreatedKey) {
		a.UserID = a.ID
	}
	a.At = msg.Timestamp
	if a.At.IsZero() {
		a.At = time.Now()
	}

	s.feed.Add(a)
	s.logger.Info("activity recorded", zap.String("kind", a.Kind), zap.String("id", a.ID.String()))

	if err := msg.Ack(false); err != nil {
		s.logger.Error("could not ack message", zap.String("key", msg.RoutingKey), zap.Error(err))
	}
}

// Recent returns the latest activities, newest first.
func (s *ActivityService) Recent() []Activity {
	return s.feed.Recent()
}

// Close stops the consumers and waits for them to return.
func (s *ActivityService) Close() {
	s.cancel()
	s.wg.Wait()
}
