package summarizer

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

// Request is what every provider receives.
type Request struct {
	System    string
	Prompt    string
	Label     string
	Text      string
	MaxTokens int
}

// Message is the user turn: instruction, then the labelled transcript.
func (r Request) Message() string {
	label := r.Label
	if label == "" {
		label = "TRANSCRIPT"
	}
	return r.Prompt + "\n\n" + label + ":\n\n" + r.Text
}

// Provider is one text-summarization backend.
type Provider interface {
	Name() string
	Summarize(ctx context.Context, req Request) (string, error)
}

// Result is a finished summary.
type Result struct {
	Text     string
	Kind     models.SummaryKind
	Provider string
}

// Orchestrator summarizes with the primary provider and falls back to the
// secondary once.
type Orchestrator interface {
	Summarize(ctx context.Context, text, kind string) (*Result, error)
}

// Recorder receives one call per provider attempt; outcome is "success" or
// "failure".
type Recorder interface {
	SummarizationAttempt(provider, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) SummarizationAttempt(string, string, time.Duration) {}
