package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aleodoni/meetapp/internal/config"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer messageWriter
	Topics config.TopicConfig
	Logger *logger.Logger
}

func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

// Publish writes one message to topic. The topic is set per message, so the
// writer must not carry a default topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	err := p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.Logger.LogKafka("PUBLISH", topic, "key "+key)
	return nil
}

// PublishMeetupEvent sends a lifecycle event keyed by meetup id, so every
// event of one meetup lands on the same partition.
func (p *Producer) PublishMeetupEvent(ctx context.Context, event models.MeetupEvent) error {
	topic, err := p.topicFor(event.Type)
	if err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	return p.Publish(ctx, topic, strconv.FormatInt(event.MeetupID, 10), value)
}

func (p *Producer) topicFor(eventType string) (string, error) {
	switch eventType {
	case models.MeetupCreated:
		return p.Topics.MeetupCreated, nil
	case models.MeetupUpdated:
		return p.Topics.MeetupUpdated, nil
	case models.MeetupDeleted:
		return p.Topics.MeetupDeleted, nil
	default:
		return "", fmt.Errorf("unknown meetup event type %q", eventType)
	}
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// LogPublisher stands in for Kafka when KAFKA_MOCK_MODE is set and only logs
// the events it receives.
type LogPublisher struct {
	Logger *logger.Logger
}

func (p *LogPublisher) PublishMeetupEvent(_ context.Context, event models.MeetupEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	p.Logger.LogKafka("MOCK", event.Type, string(value))
	return nil
}
