package processor

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/tubedigest/internal/events"
	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
	"github.com/nguyentantai21042004/tubedigest/internal/upload"
	"github.com/nguyentantai21042004/tubedigest/internal/youtube"
)

func (p *implProcessor) Allow(identifier string) bool {
	if identifier == "" {
		identifier = DefaultClient
	}
	allowed := p.limiter.Allow(identifier, p.cfg.RateLimit.Requests, p.cfg.RateLimit.Window)
	p.recorder.RateLimitDecision(allowed)
	if !allowed {
		p.logger.Warn(context.Background(), "Rate limit exceeded for %s", identifier)
	}
	return allowed
}

func (p *implProcessor) AcquireTranscript(ctx context.Context, url string, diarize bool) (*models.TranscriptResult, error) {
	return p.acquirer.Acquire(ctx, url, diarize)
}

func (p *implProcessor) Summarize(ctx context.Context, text, kind string) (*summarizer.Result, error) {
	return p.summarizer.Summarize(ctx, text, kind)
}

// ProcessURL gates, acquires, summarizes, writes and publishes, in that order.
func (p *implProcessor) ProcessURL(ctx context.Context, req Request) (*Report, error) {
	startTime := p.now()
	client := req.Client
	if client == "" {
		client = DefaultClient
	}

	if !p.Allow(client) {
		return nil, ErrRateLimited
	}
	if p.sem.busy() {
		p.logger.Info(ctx, "All %d processing slots busy, waiting...", p.sem.capacity())
	}
	if err := p.sem.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for processing slot: %w", err)
	}
	defer p.sem.release()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing video: %s (diarize=%t, client=%s)", req.URL, req.Diarize, client)
	p.logger.Info(ctx, "========================================")

	// Step 1: Acquire transcript
	transcript, err := p.AcquireTranscript(ctx, req.URL, req.Diarize)
	if err != nil {
		return nil, err
	}
	report := &Report{VideoID: transcript.VideoID, Transcript: transcript}

	videoURL := req.URL
	if transcript.VideoID != "" {
		videoURL = youtube.WatchURL(transcript.VideoID)
	}
	p.publishTranscript(ctx, events.TranscriptAcquired{
		VideoID:    transcript.VideoID,
		URL:        videoURL,
		Source:     transcript.Source,
		Characters: len(transcript.Text),
		Client:     client,
		At:         p.now().UTC(),
	})

	doc := summarizer.Document{
		Title:            videoTitle(transcript.VideoID),
		URL:              videoURL,
		TranscriptSource: string(transcript.Source),
		Transcript:       transcript.Text,
		CreatedAt:        p.now(),
	}
	base := upload.SanitizeFilename(transcript.VideoID)

	if req.TranscriptOnly {
		outputs, err := p.writeOutputs(ctx, base, doc, true)
		if err != nil {
			return nil, err
		}
		report.Outputs = outputs
		report.Elapsed = p.now().Sub(startTime)
		p.logger.Info(ctx, "[OK] Transcript ready (%s, %d characters) in %s", transcript.Source, len(transcript.Text), report.Elapsed)
		return report, nil
	}

	// Step 2: Summarize
	summary, err := p.Summarize(ctx, transcript.Text, req.Kind)
	if err != nil {
		return nil, err
	}
	report.Summary = summary

	// Step 3: Write outputs
	doc.Kind = string(summary.Kind)
	doc.Provider = summary.Provider
	doc.Summary = summary.Text
	outputs, err := p.writeOutputs(ctx, base+"_"+string(summary.Kind), doc, true)
	if err != nil {
		return nil, err
	}
	report.Outputs = outputs

	// Step 4: Publish
	p.publishSummary(ctx, events.SummaryGenerated{
		VideoID:  transcript.VideoID,
		URL:      videoURL,
		Kind:     summary.Kind,
		Provider: summary.Provider,
		Outputs:  outputs,
		Client:   client,
		At:       p.now().UTC(),
	})

	report.Elapsed = p.now().Sub(startTime)
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript source: %s", transcript.Source)
	p.logger.Info(ctx, "Summary: %s via %s", summary.Kind, summary.Provider)
	for _, out := range outputs {
		p.logger.Info(ctx, "Output: %s", out)
	}
	p.logger.Info(ctx, "Processing time: %s", report.Elapsed)
	p.logger.Info(ctx, "========================================")

	return report, nil
}

// publishTranscript and publishSummary never fail the request; the publisher
// has already logged the error.
func (p *implProcessor) publishTranscript(ctx context.Context, e events.TranscriptAcquired) {
	_ = p.publisher.PublishTranscript(ctx, e)
}

func (p *implProcessor) publishSummary(ctx context.Context, e events.SummaryGenerated) {
	_ = p.publisher.PublishSummary(ctx, e)
}

func videoTitle(videoID string) string {
	if videoID == "" {
		return "YouTube video"
	}
	return "YouTube video " + videoID
}
