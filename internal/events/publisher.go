package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pricefeed/internal/logger"
	"pricefeed/internal/models"

	"github.com/segmentio/kafka-go"
)

const runTopic = "price-sync-events"

// RunCompletedEvent is published after every successful sync run.
type RunCompletedEvent struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Products   int        `json:"products"`
	PriceRows  int        `json:"price_rows"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        runTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: time.Second,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) PublishRunCompleted(ctx context.Context, run *models.SyncRun) error {
	event := RunCompletedEvent{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Products:   run.Products,
		PriceRows:  run.PriceRows,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(run.ID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	p.logger.Debug("Published run event for %s", run.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
