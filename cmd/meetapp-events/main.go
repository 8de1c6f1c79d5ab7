package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aleodoni/meetapp/internal/config"
	"github.com/aleodoni/meetapp/internal/kafka"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
)

// meetapp-events tails the meetup lifecycle topics and logs every event.
func main() {
	group := flag.String("group", "meetapp-events", "kafka consumer group id")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, ".env file not found, using environment variables")
	}

	cfg := config.Load()
	log, err := logger.NewLogger(logger.Options{Dir: cfg.Log.Dir, Service: "meetapp-events"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	topics := []string{cfg.Kafka.Topics.MeetupCreated, cfg.Kafka.Topics.MeetupUpdated, cfg.Kafka.Topics.MeetupDeleted}
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, topics, *group, log)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("KAFKA", fmt.Sprintf("Consuming %v from %v as %s", topics, cfg.Kafka.Brokers, *group))
	err = consumer.Start(ctx, func(event models.MeetupEvent) error {
		log.LogMeetup(event.Type, event.MeetupID, fmt.Sprintf("organizer %d, %q at %s",
			event.OrganizerID, event.Title, event.ScheduledAt.Format(time.RFC3339)))
		return nil
	})
	if err != nil {
		log.Error("KAFKA", err.Error())
		consumer.Close()
		os.Exit(1)
	}
	log.Info("APP", "Consumer stopped")
}
