package acquisition

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/youtube"
)

// Orchestrator obtains a transcript for a YouTube URL, trying the cheapest
// source first.
type Orchestrator interface {
	Acquire(ctx context.Context, url string, diarize bool) (*models.TranscriptResult, error)
}

type CaptionSource interface {
	Fetch(ctx context.Context, videoID string) (*models.TranscriptResult, error)
}

type AudioSource interface {
	Download(ctx context.Context, url string) (*youtube.DownloadHandle, error)
}

// Recorder receives acquisition outcomes. stage is the failing stage name or
// "validation".
type Recorder interface {
	AcquisitionSucceeded(source models.Source, elapsed time.Duration)
	AcquisitionFailed(stage string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) AcquisitionSucceeded(models.Source, time.Duration) {}
func (nopRecorder) AcquisitionFailed(string, time.Duration)           {}
