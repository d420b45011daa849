package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/nguyentantai21042004/tubedigest/internal/acquisition"
	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/events"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/metrics"
	"github.com/nguyentantai21042004/tubedigest/internal/processor"
	"github.com/nguyentantai21042004/tubedigest/internal/ratelimit"
	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
	"github.com/nguyentantai21042004/tubedigest/internal/transcriber"
	"github.com/nguyentantai21042004/tubedigest/internal/youtube"
	"github.com/nguyentantai21042004/tubedigest/pkg/executor"
	"github.com/nguyentantai21042004/tubedigest/pkg/gemini"
)

// app holds everything a command needs and what must be flushed on exit.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	metrics   *metrics.Metrics
	limiter   *ratelimit.Limiter
	publisher events.Publisher
	proc      processor.Processor
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// stdout is reserved for command output
	log := logger.NewWithWriter(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Debug(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	m := metrics.New()
	exec := executor.New()

	var gc gemini.Client
	if len(cfg.Gemini.APIKeys) > 0 {
		gc, err = gemini.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
	} else {
		log.Warn(ctx, "No Gemini API key configured: diarized transcripts and Gemini summaries are disabled")
	}

	prober := youtube.NewProber(cfg.YouTube, exec, log)
	captions := youtube.NewCaptionFetcher(cfg.YouTube, prober, nil, log)
	downloader := youtube.NewDownloader(cfg, prober, exec, log, youtube.WithAttemptHook(m.DownloadAttempt))

	local := transcriber.NewLocal(cfg, exec, log)
	var remote transcriber.Transcriber
	if gc != nil {
		remote = transcriber.NewRemote(cfg, gc, log)
	}

	acq := acquisition.New(captions, downloader, local, remote, m, log)
	sum := summarizer.New(cfg.Summary,
		summarizer.NewPerplexity(cfg.Perplexity, nil),
		summarizer.NewGemini(cfg.Gemini, gc),
		m, log)

	limiter := ratelimit.New()
	pub := events.New(cfg.Kafka, m, log)

	proc := processor.New(cfg, processor.Deps{
		Limiter:    limiter,
		Acquirer:   acq,
		Summarizer: sum,
		Publisher:  pub,
		Recorder:   m,
	}, log)

	return &app{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		limiter:   limiter,
		publisher: pub,
		proc:      proc,
	}, nil
}

// close flushes events and writes the metrics textfile.
func (a *app) close(ctx context.Context) {
	if err := a.publisher.Close(); err != nil {
		a.log.Warn(ctx, "Failed to close event publisher: %v", err)
	}
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.log.Warn(ctx, "Failed to write metrics textfile %s: %v", path, err)
		} else {
			a.log.Debug(ctx, "Metrics written to %s", path)
		}
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
