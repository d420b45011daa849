package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
)

type implOrchestrator struct {
	providers []Provider
	language  string
	maxChars  int
	timeout   time.Duration
	recorder  Recorder
	logger    logger.Logger
}

// New creates an Orchestrator. Either provider may be nil; with both nil
// every call fails with provider "none".
func New(cfg config.SummaryConfig, primary, secondary Provider, rec Recorder, log logger.Logger) Orchestrator {
	var providers []Provider
	for _, p := range []Provider{primary, secondary} {
		if p != nil {
			providers = append(providers, p)
		}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &implOrchestrator{
		providers: providers,
		language:  cfg.Language,
		maxChars:  cfg.MaxTextLength,
		timeout:   cfg.Timeout,
		recorder:  rec,
		logger:    log.With("summarizer"),
	}
}
