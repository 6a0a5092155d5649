package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaProducer publishes CloudEvents with kafka-go.
type KafkaProducer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewKafkaProducer creates a producer for brokers. Topics are chosen per message.
func NewKafkaProducer(brokers []string, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}
}

// PublishEvent writes the event keyed by its subject, so events about one
// booking stay ordered within a partition.
func (p *KafkaProducer) PublishEvent(ctx context.Context, topic string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(event.partitionKey()),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "ce_type", Value: []byte(event.Type)},
			{Key: "ce_source", Value: []byte(event.Source)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}
	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("event_type", event.Type),
		zap.String("event_id", event.ID),
	)
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// HandlerFunc processes one message. Returning an error leaves the offset uncommitted.
type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

// KafkaConsumer reads a topic as part of a consumer group.
type KafkaConsumer struct {
	reader *kafkago.Reader
	logger *zap.Logger
}

// NewKafkaConsumer creates a consumer for topic in groupID.
func NewKafkaConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        brokers,
			GroupID:        groupID,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0,
		}),
		logger: logger,
	}
}

// Consume fetches messages until ctx is cancelled. A failing message is
// retried with backoff up to maxAttempts times, then committed and skipped.
func (c *KafkaConsumer) Consume(ctx context.Context, handle HandlerFunc) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			c.logger.Warn("failed to fetch message", zap.Error(err))
			continue
		}

		if err := c.handleWithRetry(ctx, msg, handle); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("dropping message after retries",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warn("failed to commit message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

const maxAttempts = 5

func (c *KafkaConsumer) handleWithRetry(ctx context.Context, msg kafkago.Message, handle HandlerFunc) error {
	backoff := 500 * time.Millisecond
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = handle(ctx, msg); err == nil {
			return nil
		}
		c.logger.Warn("message handler failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// Close closes the reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
