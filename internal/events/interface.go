// Package events publishes pipeline outcomes to Kafka.
package events

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

// Publisher emits transcript and summary events. Implementations never make
// a pipeline request fail: errors are logged and returned for the caller to
// ignore or record.
type Publisher interface {
	PublishTranscript(ctx context.Context, e TranscriptAcquired) error
	PublishSummary(ctx context.Context, e SummaryGenerated) error
	Close() error
}

// Recorder receives one call per publish attempt.
type Recorder interface {
	EventPublished(topic string, err error)
}

const (
	TypeTranscriptAcquired = "transcript.acquired"
	TypeSummaryGenerated   = "summary.generated"
)

type TranscriptAcquired struct {
	VideoID    string        `json:"video_id"`
	URL        string        `json:"url"`
	Source     models.Source `json:"source"`
	Characters int           `json:"characters"`
	Client     string        `json:"client,omitempty"`
	At         time.Time     `json:"at"`
}

type SummaryGenerated struct {
	VideoID  string             `json:"video_id,omitempty"`
	URL      string             `json:"url,omitempty"`
	File     string             `json:"file,omitempty"`
	Kind     models.SummaryKind `json:"kind"`
	Provider string             `json:"provider"`
	Outputs  []string           `json:"outputs"`
	Client   string             `json:"client,omitempty"`
	At       time.Time          `json:"at"`
}

type nopRecorder struct{}

func (nopRecorder) EventPublished(string, error) {}
