// Package publisher ships audit events to Kafka.
//
// Publishing is asynchronous and fail-open: a broker outage degrades to a
// logged warning rather than failing the business operation. Compliance-grade
// fail-closed delivery would need an outbox, which this service does not
// carry.
package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"crossclass/pkg/platform/audit"
)

// Kafka publishes audit events to a single topic keyed by subject so events
// for one entity stay ordered within a partition.
type Kafka struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafka connects a producer for the given brokers and topic.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Kafka{client: client, logger: logger}, nil
}

type wireEvent struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	ActorID   string `json:"actor_id,omitempty"`
	Subject   string `json:"subject"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Record serializes and produces the event without blocking the caller.
func (k *Kafka) Record(ctx context.Context, event audit.Event) {
	wire := wireEvent{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:    string(event.Action),
		Subject:   event.Subject,
		Outcome:   event.Outcome,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	}
	if !event.ActorID.IsNil() {
		wire.ActorID = event.ActorID.String()
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		k.warn(ctx, "marshal audit event", err)
		return
	}

	record := &kgo.Record{Key: []byte(event.Subject), Value: payload}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.warn(context.Background(), "produce audit event", err)
		}
	})
}

// Close flushes outstanding produce requests and releases the client.
func (k *Kafka) Close(ctx context.Context) error {
	if err := k.client.Flush(ctx); err != nil {
		return err
	}
	k.client.Close()
	return nil
}

func (k *Kafka) warn(ctx context.Context, msg string, err error) {
	if k.logger != nil {
		k.logger.WarnContext(ctx, msg, "error", err)
	}
}
