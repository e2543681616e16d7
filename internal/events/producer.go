package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// Lifecycle topics consumed by kitchen and fulfillment tooling. Transitions
// past "submitted" (preparing, ready, served) happen on that side; this
// service only produces.
const (
	OrderCreatedTopic   = "order.created"
	OrderSubmittedTopic = "order.submitted"
	OrderCanceledTopic  = "order.canceled"
)

type OrderEvent struct {
	EventID      string    `json:"event_id"`
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	Status       string    `json:"status"`
	Channel      string    `json:"channel"`
	Total        float64   `json:"total"`
	OccurredAt   time.Time `json:"occurred_at"`
	EventTime    time.Time `json:"event_time"`
}

// Publisher fans order lifecycle events out to downstream systems. Publish
// failures never fail the originating operation; callers log and move on.
type Publisher interface {
	PublishOrderEvent(topic string, event OrderEvent) error
	Close() error
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

func NewKafkaPublisher(brokers string, logger *logrus.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer([]string{brokers}, config)
	if err != nil {
		return nil, err
	}

	return &KafkaPublisher{
		producer: producer,
		logger:   logger,
	}, nil
}

func (p *KafkaPublisher) PublishOrderEvent(topic string, event OrderEvent) error {
	event.EventTime = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to send message to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"order_id":  event.OrderID,
	}).Info("Event published to Kafka")

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. It stands in when no broker is configured and
// in tests.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(string, OrderEvent) error { return nil }
func (NopPublisher) Close() error                               { return nil }
