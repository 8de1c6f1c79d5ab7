package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads meetup lifecycle events from one or more topics.
type Consumer struct {
	reader messageReader
	Logger *logger.Logger
}

func NewConsumer(brokers []string, topics []string, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: reader, Logger: log}
}

// Start blocks, handing every decoded event to handler until ctx is done.
// Messages that fail to decode are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(models.MeetupEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var event models.MeetupEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.Logger.Warn("KAFKA", fmt.Sprintf("Skipping undecodable message on %s at offset %d: %v", msg.Topic, msg.Offset, err))
			continue
		}

		if err := handler(event); err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("Handler failed for %s on meetup %d: %v", event.Type, event.MeetupID, err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
