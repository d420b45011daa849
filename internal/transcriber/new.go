package transcriber

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/pkg/executor"
	"github.com/nguyentantai21042004/tubedigest/pkg/gemini"
)

type implLocal struct {
	cfg      config.WhisperConfig
	ffmpeg   string
	executor executor.Executor
	logger   logger.Logger
	lookPath func(string) (string, error)

	once    sync.Once
	initErr error
}

// NewLocal creates a whisper.cpp backed Transcriber. Build one per process
// and share it; the model check runs once on first use.
func NewLocal(cfg *config.Config, runner executor.Executor, log logger.Logger) Transcriber {
	return &implLocal{
		cfg:      cfg.Whisper,
		ffmpeg:   cfg.FFmpeg.BinaryPath,
		executor: runner,
		logger:   log.With("transcriber"),
		lookPath: exec.LookPath,
	}
}

type implRemote struct {
	client       gemini.Client
	model        string
	language     string
	temperature  float32
	pollInterval time.Duration
	maxWait      time.Duration
	timeout      time.Duration
	logger       logger.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRemote creates a diarizing Transcriber backed by Gemini.
func NewRemote(cfg *config.Config, client gemini.Client, log logger.Logger) Transcriber {
	return &implRemote{
		client:       client,
		model:        cfg.Gemini.TranscriptionModel,
		language:     cfg.YouTube.CaptionLanguage,
		temperature:  float32(cfg.Gemini.Temperature),
		pollInterval: cfg.Gemini.PollInterval,
		maxWait:      cfg.Gemini.MaxProcessingWait,
		timeout:      cfg.Gemini.Timeout,
		logger:       log.With("transcriber"),
		now:          time.Now,
		sleep:        sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
