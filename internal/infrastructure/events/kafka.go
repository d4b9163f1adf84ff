package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"helperhub/internal/domain/request"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes request lifecycle events keyed by request id so
// every event for one request lands on the same partition.
type KafkaPublisher struct {
	writer  messageWriter
	logger  *log.Logger
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string, logger *log.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Notify publishes ev. Failures are logged; the request itself is already
// committed and is not rolled back.
func (p *KafkaPublisher) Notify(ctx context.Context, ev request.Event) {
	if p == nil || p.writer == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		p.logf("[Events] marshal failed type=%s request_id=%s err=%v", ev.Type, ev.RequestID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RequestID.String()),
		Value: b,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		p.logf("[Events] publish failed type=%s request_id=%s err=%v", ev.Type, ev.RequestID, err)
	}
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaPublisher) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
