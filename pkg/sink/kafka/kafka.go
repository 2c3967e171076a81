// Package kafka implements the identifier sink on a Kafka/Redpanda topic.
// Each enumeration cycle becomes one synchronously produced batch of records,
// one record per identifier, tagged with a shared cycle ID so downstream
// consumers can correlate a cycle's identifiers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/contentgrid/dctm-connector/pkg/sink"
)

// Config holds configuration for the Kafka sink.
type Config struct {
	Brokers []string
	Topic   string
}

// Sink produces document identifiers to a Kafka topic.
type Sink struct {
	client *kgo.Client
	topic  string
	logger hclog.Logger
}

// identifierEvent is the record payload for one document identifier.
type identifierEvent struct {
	ID        string    `json:"id"`
	CycleID   string    `json:"cycle_id"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a Kafka identifier sink.
func New(cfg Config, logger hclog.Logger) (*Sink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),

		// Wait for all in-sync replicas; the identifier feed is the contract
		// with the indexing pipeline and must not silently drop records.
		kgo.RequiredAcks(kgo.AllISRAcks()),

		kgo.ProducerBatchCompression(kgo.GzipCompression()),
		kgo.ProducerLinger(10*time.Millisecond),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &Sink{
		client: client,
		topic:  cfg.Topic,
		logger: logger.Named("kafka-sink"),
	}, nil
}

// Push produces one record per identifier and waits for the whole batch to
// be acknowledged. Context cancellation aborts the wait and propagates.
func (s *Sink) Push(ctx context.Context, ids []sink.DocID) error {
	if len(ids) == 0 {
		return nil
	}

	cycleID := uuid.New().String()
	records, err := s.buildRecords(ids, cycleID, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := s.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("failed to push identifier batch: %w", err)
	}

	s.logger.Debug("pushed identifier batch",
		"count", len(ids),
		"cycle_id", cycleID,
	)
	return nil
}

// buildRecords renders one record per identifier, keyed by the identifier,
// with the cycle ID shared across the whole batch.
func (s *Sink) buildRecords(ids []sink.DocID, cycleID string, now time.Time) ([]*kgo.Record, error) {
	records := make([]*kgo.Record, 0, len(ids))
	for _, id := range ids {
		payload, err := json.Marshal(identifierEvent{
			ID:        id.String(),
			CycleID:   cycleID,
			Timestamp: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal identifier event: %w", err)
		}
		records = append(records, &kgo.Record{
			Topic: s.topic,
			Key:   []byte(id),
			Value: payload,
		})
	}
	return records, nil
}

// Close flushes and closes the underlying client.
func (s *Sink) Close() {
	s.client.Close()
}
