package repository

import (
	"context"
	"fmt"

	"StockLens/internal/domain/models"
	"StockLens/internal/domain/repository"
)

// messageWriter is the part of pkg/kafka.Producer used here.
type messageWriter interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher for Kafka. Events are keyed
// by symbol so that one symbol's history stays on one partition.
type KafkaEventPublisher struct {
	producer messageWriter
	topic    string
}

// NewKafkaEventPublisher creates Kafka event publisher.
func NewKafkaEventPublisher(producer messageWriter, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishAnalysis(ctx context.Context, ev *models.AnalysisEvent) error {
	if ev == nil {
		return nil
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev); err != nil {
		return fmt.Errorf("publish analysis event: %w", err)
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopEventPublisher drops every event. Used when Kafka is disabled.
type NopEventPublisher struct{}

func NewNopEventPublisher() repository.EventPublisher { return NopEventPublisher{} }

func (NopEventPublisher) PublishAnalysis(context.Context, *models.AnalysisEvent) error { return nil }
func (NopEventPublisher) Close() error                                                 { return nil }
