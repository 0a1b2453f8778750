// Package ingest stores meter readings published to a Kafka topic.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"go.uber.org/zap"

	"github.com/milad/meterreads/internal/config"
	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/logger"
	"github.com/milad/meterreads/internal/service"
)

// ReadingCreator is satisfied by *service.MeterUsageService.
type ReadingCreator interface {
	CreateReading(ctx context.Context, cumulative float64, readingDate time.Time, unit string) (domain.Reading, error)
}

// message is the topic payload, the same shape as the POST /meters body.
type message struct {
	Cumulative  *float64 `json:"cumulative"`
	ReadingDate string   `json:"readingDate"`
	Unit        string   `json:"unit"`
}

type Consumer struct {
	group sarama.ConsumerGroup
	topic string
	h     *handler
	log   *zap.Logger
}

func NewConsumer(cfg config.KafkaConfig, store ReadingCreator, log *zap.Logger) (*Consumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	sc.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	sc.Consumer.MaxWaitTime = 250 * time.Millisecond

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("create consumer group %q: %w", cfg.GroupID, err)
	}
	return newConsumer(group, cfg.Topic, store, log), nil
}

func newConsumer(group sarama.ConsumerGroup, topic string, store ReadingCreator, log *zap.Logger) *Consumer {
	l := log.With(zap.String("topic", topic))
	return &Consumer{
		group: group,
		topic: topic,
		h:     &handler{store: store, log: l},
		log:   l,
	}
}

// Run consumes until ctx is cancelled or the group is closed.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.log.Warn("kafka consumer error", zap.Error(err))
		}
	}()

	for {
		err := c.group.Consume(ctx, []string{c.topic}, c.h)
		if ctx.Err() != nil || errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("consume %s: %w", c.topic, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type handler struct {
	store ReadingCreator
	log   *zap.Logger
}

func (h *handler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *handler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks malformed and rejected messages so they are skipped. A store
// failure ends the claim without marking, so the message is delivered again.
func (h *handler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handle(ctx, msg); err != nil {
				return err
			}
			session.MarkMessage(msg, "")
		}
	}
}

func (h *handler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	l := h.log.With(zap.Int32("partition", msg.Partition), zap.Int64("offset", msg.Offset))

	var m message
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		l.Warn("dropping malformed reading", zap.Error(err))
		return nil
	}
	if m.Cumulative == nil {
		l.Warn("dropping reading without cumulative")
		return nil
	}
	when, err := domain.ParseReadingDate(m.ReadingDate)
	if err != nil {
		l.Warn("dropping reading with bad date", zap.Error(err))
		return nil
	}

	_, err = h.store.CreateReading(logger.WithContext(ctx, l), *m.Cumulative, when, m.Unit)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrInvalidReading):
		l.Warn("dropping rejected reading", zap.Error(err))
		return nil
	default:
		l.Error("store reading", zap.Error(err))
		return fmt.Errorf("store reading at offset %d: %w", msg.Offset, err)
	}
}
