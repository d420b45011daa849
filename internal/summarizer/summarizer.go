package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

const providerNone = "none"

func (o *implOrchestrator) Summarize(ctx context.Context, text, kind string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &models.ValidationError{Field: "text", Message: "nothing to summarize"}
	}

	in := models.SummaryRequest{Text: o.truncate(ctx, text), Kind: models.ParseSummaryKind(kind)}
	req := buildRequest(o.language, in.Kind, in.Text)

	if len(o.providers) == 0 {
		return nil, &models.SummarizationError{Provider: providerNone, Message: "no summarization provider configured"}
	}

	var lastErr error
	last := providerNone
	for _, p := range o.providers {
		last = p.Name()
		o.logger.Info(ctx, "%s: summarizing (%s mode)...", last, in.Kind)

		summary, err := o.call(ctx, p, req)
		if err == nil {
			o.logger.Info(ctx, "[OK] %s response (%d characters)", last, len(summary))
			return &Result{Text: summary, Kind: in.Kind, Provider: last}, nil
		}
		o.logger.Warn(ctx, "%s summarization failed: %v", last, err)
		lastErr = err
	}

	return nil, &models.SummarizationError{Provider: last, Message: "all summarization providers failed", Err: lastErr}
}

// call runs a single provider once under the summary timeout. Empty output
// counts as a failure.
func (o *implOrchestrator) call(ctx context.Context, p Provider, req Request) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	summary, err := p.Summarize(ctx, req)
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errors.New("empty summary")
	}
	if err != nil {
		o.recorder.SummarizationAttempt(p.Name(), "failure", time.Since(start))
		return "", fmt.Errorf("%s: %w", p.Name(), err)
	}
	o.recorder.SummarizationAttempt(p.Name(), "success", time.Since(start))
	return strings.TrimSpace(summary), nil
}

// truncate cuts text to maxChars runes.
func (o *implOrchestrator) truncate(ctx context.Context, text string) string {
	if o.maxChars <= 0 {
		return text
	}
	n := utf8.RuneCountInString(text)
	if n <= o.maxChars {
		return text
	}
	o.logger.Warn(ctx, "Truncating text from %d to %d characters", n, o.maxChars)
	return string([]rune(text)[:o.maxChars])
}
