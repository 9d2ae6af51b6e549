package service

import (
	"context"
	"fmt"
	"time"

	"equity_trader/internal/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Config struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes signal changes keyed by symbol, so one symbol always lands on one partition.
type Kafka struct {
	w     messageWriter
	topic string
	log   *zap.Logger
}

func NewKafka(cfg Config, log *zap.Logger) *Kafka {
	topic := cfg.Topic
	if topic == "" {
		topic = models.SignalsTopic
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return newKafka(w, topic, log)
}

func newKafka(w messageWriter, topic string, log *zap.Logger) *Kafka {
	return &Kafka{w: w, topic: topic, log: log.Named("publisher")}
}

func (k *Kafka) Publish(ctx context.Context, event models.SignalChangeEvent) error {
	key, value, err := models.EncodeSignalEvent(event)
	if err != nil {
		return fmt.Errorf("Kafka.Publish: %w", err)
	}

	if err := k.w.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		return fmt.Errorf("Kafka.Publish %s to %s: %w", key, k.topic, err)
	}

	k.log.Info("signal published",
		zap.ByteString("key", key),
		zap.Stringer("signal", event.Signal),
		zap.String("topic", k.topic),
	)
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
