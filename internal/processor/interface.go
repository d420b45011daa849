package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
)

// Processor is the service façade used by the CLI and the inbox watcher.
type Processor interface {
	// Allow reports whether identifier may start another request under the
	// configured rate limit.
	Allow(identifier string) bool
	AcquireTranscript(ctx context.Context, url string, diarize bool) (*models.TranscriptResult, error)
	Summarize(ctx context.Context, text, kind string) (*summarizer.Result, error)

	// ProcessURL runs the whole pipeline for one video and writes the outputs.
	ProcessURL(ctx context.Context, req Request) (*Report, error)
	// SummarizeFile summarizes a transcript file and writes the outputs.
	SummarizeFile(ctx context.Context, path, kind string) (*Report, error)
	// ProcessTranscriptFile summarizes an uploaded transcript file and archives it.
	ProcessTranscriptFile(ctx context.Context, path string) error
}

type Request struct {
	URL            string
	Diarize        bool
	Kind           string
	Client         string
	TranscriptOnly bool
}

type Report struct {
	VideoID    string
	Transcript *models.TranscriptResult
	Summary    *summarizer.Result
	Outputs    []string
	Elapsed    time.Duration
}

// Recorder receives gate decisions and cleanup failures.
type Recorder interface {
	RateLimitDecision(allowed bool)
	CleanupFailure(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RateLimitDecision(bool) {}
func (nopRecorder) CleanupFailure(string)  {}
