package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrTopicMissing = errors.New("topic has no partitions")

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context) (MessageReader, error)
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaSubscriber joins the consumer group after checking that a broker answers and the topic exists.
type KafkaSubscriber struct {
	cfg KafkaConfig
	log *zap.Logger
}

func NewKafkaSubscriber(cfg KafkaConfig, log *zap.Logger) *KafkaSubscriber {
	return &KafkaSubscriber{cfg: cfg, log: log.Named("kafka")}
}

func (s *KafkaSubscriber) Subscribe(ctx context.Context) (MessageReader, error) {
	if err := s.checkTopic(ctx); err != nil {
		return nil, fmt.Errorf("KafkaSubscriber.Subscribe: %w", err)
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  s.cfg.Brokers,
		GroupID:  s.cfg.GroupID,
		Topic:    s.cfg.Topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  time.Second,
		// new groups start from the oldest retained message; the age gate drops anything stale
		StartOffset: kafka.FirstOffset,
		// commits are synchronous
		CommitInterval: 0,
		ErrorLogger:    kafka.LoggerFunc(s.log.Sugar().Errorf),
	}), nil
}

func (s *KafkaSubscriber) checkTopic(ctx context.Context) error {
	var lastErr error
	for _, broker := range s.cfg.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = fmt.Errorf("dial %s: %w", broker, err)
			continue
		}

		parts, err := conn.ReadPartitions(s.cfg.Topic)
		_ = conn.Close()
		if err != nil {
			lastErr = fmt.Errorf("read partitions of %s: %w", s.cfg.Topic, err)
			continue
		}
		if len(parts) == 0 {
			return fmt.Errorf("%s: %w", s.cfg.Topic, ErrTopicMissing)
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no brokers configured")
	}
	return lastErr
}

// subscribe retries with a fixed delay until it succeeds or ctx ends.
func (c *Consumer) subscribe(ctx context.Context) (MessageReader, error) {
	for attempt := 1; ; attempt++ {
		r, err := c.subscriber.Subscribe(ctx)
		if err == nil {
			c.state.SetSubscribed(true)
			c.log.Info("subscribed", zap.Int("attempt", attempt))
			return r, nil
		}

		c.log.Warn("subscribe failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", c.cfg.RetryDelay),
			zap.Error(err),
		)
		if !sleep(ctx, c.cfg.RetryDelay) {
			return nil, ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
