package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LeJamon/goMarketd/internal/storage/history"
	"github.com/segmentio/kafka-go"
)

// HistorySink appends batches to the history store.
type HistorySink struct {
	Store *history.Store
}

func (HistorySink) Name() string { return "history" }

func (s HistorySink) Write(ctx context.Context, b Batch) error {
	return s.Store.Append(ctx, b.Records())
}

// MessageWriter is the part of kafka.Writer the Kafka sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink produces one message per event, keyed so that the events of an
// offer land in the same partition.
type KafkaSink struct {
	writer MessageWriter
}

// NewKafkaSink creates a synchronous producer for topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	})
}

func NewKafkaSinkWithWriter(w MessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

func (*KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Write(ctx context.Context, b Batch) error {
	msgs := make([]kafka.Message, 0, len(b.Events))
	for _, e := range b.Events {
		value, err := json.Marshal(struct {
			Sequence uint64 `json:"sequence"`
			TxHash   string `json:"txHash"`
			Envelope
		}{b.Sequence, b.TxHash, e})
		if err != nil {
			return err
		}
		key := e.Key
		if key == "" {
			key = e.Type
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(key),
			Value: value,
			Time:  b.Time,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(e.Type)},
			},
		})
	}
	return s.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the producer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
