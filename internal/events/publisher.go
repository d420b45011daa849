package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
)

func (p *implPublisher) PublishTranscript(ctx context.Context, e TranscriptAcquired) error {
	return p.publish(ctx, p.transcripts, p.topicTranscripts, TypeTranscriptAcquired, e.VideoID, e)
}

func (p *implPublisher) PublishSummary(ctx context.Context, e SummaryGenerated) error {
	key := e.VideoID
	if key == "" {
		key = e.File
	}
	return p.publish(ctx, p.summaries, p.topicSummaries, TypeSummaryGenerated, key, e)
}

func (p *implPublisher) publish(ctx context.Context, w messageWriter, topic, eventType, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "Failed to marshal %s event: %v", eventType, err)
		p.recorder.EventPublished(topic, err)
		return err
	}

	p.logger.Debug(ctx, "Publishing %s to %s key=%s payload=%s", eventType, topic, key, payload)

	if !p.enabled || w == nil {
		p.recorder.EventPublished(topic, nil)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	// A cancelled request must not drop an event for work that already finished.
	if err := w.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		p.logger.Error(ctx, "Failed to write %s to Kafka topic %s: %v", eventType, topic, err)
		p.recorder.EventPublished(topic, err)
		return err
	}

	p.recorder.EventPublished(topic, nil)
	return nil
}

// Close flushes and closes both writers.
func (p *implPublisher) Close() error {
	var errs []error
	for _, w := range []messageWriter{p.transcripts, p.summaries} {
		if w == nil {
			continue
		}
		if err := w.Close(); err != nil {
			p.logger.Error(context.Background(), "Error closing Kafka writer: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
