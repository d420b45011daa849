package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type implPublisher struct {
	transcripts      messageWriter
	summaries        messageWriter
	topicTranscripts string
	topicSummaries   string
	principal        string
	enabled          bool
	recorder         Recorder
	logger           logger.Logger
}

// New builds a publisher. With Kafka disabled or no brokers configured the
// publisher only logs the events it receives.
func New(cfg config.KafkaConfig, rec Recorder, log logger.Logger) Publisher {
	if rec == nil {
		rec = nopRecorder{}
	}
	p := &implPublisher{
		topicTranscripts: cfg.TopicTranscripts,
		topicSummaries:   cfg.TopicSummaries,
		principal:        cfg.Principal,
		recorder:         rec,
		logger:           log.With("events"),
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		p.logger.Info(context.Background(), "Kafka disabled, using log-only mode")
		return p
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{Dial: dialer.DialFunc}

	p.transcripts = newWriter(cfg.Brokers, cfg.TopicTranscripts, transport)
	p.summaries = newWriter(cfg.Brokers, cfg.TopicSummaries, transport)
	p.enabled = true

	p.logger.Info(context.Background(), "[OK] Kafka publisher initialized: brokers=%v transcripts=%s summaries=%s",
		cfg.Brokers, cfg.TopicTranscripts, cfg.TopicSummaries)
	return p
}

func newWriter(brokers []string, topic string, transport *kafka.Transport) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}
}
