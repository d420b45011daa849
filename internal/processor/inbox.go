package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/events"
	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
	"github.com/nguyentantai21042004/tubedigest/internal/upload"
)

// SummarizeFile validates and summarizes an uploaded transcript file and
// writes the summary documents. The source file is left untouched.
func (p *implProcessor) SummarizeFile(ctx context.Context, path, kind string) (*Report, error) {
	startTime := p.now()
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if err := upload.Validate(name, info.Size(), p.cfg.Upload.MaxSize, p.cfg.Upload.Extensions); err != nil {
		p.logger.Warn(ctx, "Rejected upload %s: %v", name, err)
		return nil, err
	}

	if p.sem.busy() {
		p.logger.Info(ctx, "All %d processing slots busy, waiting...", p.sem.capacity())
	}
	if err := p.sem.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for processing slot: %w", err)
	}
	defer p.sem.release()

	p.logger.Info(ctx, "Processing uploaded transcript: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	text := upload.Parse(string(data))
	if text == "" {
		return nil, &models.ValidationError{Field: "file", Message: "Empty transcript"}
	}

	summary, err := p.Summarize(ctx, text, kind)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	doc := summarizer.Document{
		Title:            stem,
		TranscriptSource: "upload",
		Kind:             string(summary.Kind),
		Provider:         summary.Provider,
		Summary:          summary.Text,
		Transcript:       text,
		CreatedAt:        p.now(),
	}
	outputs, err := p.writeOutputs(ctx, upload.SanitizeFilename(stem)+"_"+string(summary.Kind), doc, false)
	if err != nil {
		return nil, err
	}

	p.publishSummary(ctx, events.SummaryGenerated{
		File:     name,
		Kind:     summary.Kind,
		Provider: summary.Provider,
		Outputs:  outputs,
		At:       p.now().UTC(),
	})

	report := &Report{Summary: summary, Outputs: outputs, Elapsed: p.now().Sub(startTime)}
	p.logger.Info(ctx, "[OK] %s summarized via %s in %s", name, summary.Provider, report.Elapsed)
	return report, nil
}

// ProcessTranscriptFile handles one file dropped into the inbox. Inbox files
// share the InboxClient quota. Rejected or failed files stay where they are;
// summarized files move to the archive.
func (p *implProcessor) ProcessTranscriptFile(ctx context.Context, path string) error {
	if !p.Allow(InboxClient) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrRateLimited)
	}

	if _, err := p.SummarizeFile(ctx, path, ""); err != nil {
		return err
	}

	if _, err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
		p.recorder.CleanupFailure("archive")
	}
	return nil
}
