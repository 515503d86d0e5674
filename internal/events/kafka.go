package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// KafkaPublisher forwards events to a Kafka topic as JSON records keyed by
// ticket id, so every event of one ticket lands on the same partition in
// publish order. Events without a ticket are keyed by their own id.
type KafkaPublisher struct {
	client *kgo.Client
	logger *zap.Logger
}

// NewKafkaPublisher connects a producer for the given topic. Extra client
// options are appended after the defaults.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger, opts ...kgo.Opt) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, logger: logger}, nil
}

// Handle is an EventHandler producing one record per event. Produce is
// asynchronous; delivery failures are logged by the callback.
func (p *KafkaPublisher) Handle(ctx context.Context, event Event) error {
	record, err := recordFor(event)
	if err != nil {
		return err
	}
	p.client.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("kafka produce failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	})
	return nil
}

func recordFor(event Event) (*kgo.Record, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	key := event.TicketID
	if key == "" {
		key = event.ID
	}
	return &kgo.Record{
		Key:     []byte(key),
		Value:   value,
		Headers: []kgo.RecordHeader{{Key: "event_type", Value: []byte(event.Type)}},
	}, nil
}

// SubscribeAll registers the publisher for every known event type.
func (p *KafkaPublisher) SubscribeAll(d Dispatcher) {
	for _, t := range AllEventTypes {
		d.Subscribe(t, p.Handle)
	}
}

// Close flushes buffered records and closes the producer.
func (p *KafkaPublisher) Close(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka flush failed", zap.Error(err))
	}
	p.client.Close()
}
