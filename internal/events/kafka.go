package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"campus-market-go/internal/config"
	"campus-market-go/internal/domain/listing"
	"campus-market-go/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes listing events keyed by item id so one listing stays on one partition.
type KafkaPublisher struct {
	writer messageWriter
	log    logger.Logger
}

func NewKafka(cfg config.KafkaConfig, log logger.Logger) *KafkaPublisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}, log)
}

func newPublisher(writer messageWriter, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...listing.Event) error {
	if p == nil || p.writer == nil || len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", event.Type, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(strconv.FormatUint(uint64(event.ItemID), 10)),
			Value: payload,
			Time:  event.OccurredAt,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(event.Type)},
			},
		})
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("write %d listing events: %w", len(messages), err)
	}
	p.log.Debug("events: published", "count", len(messages))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
