package youtube

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/retry"
	"github.com/nguyentantai21042004/tubedigest/pkg/executor"
)

type implProber struct {
	binary      string
	cookiesFile string
	socket      time.Duration
	timeout     time.Duration
	executor    executor.Executor
	logger      logger.Logger
}

// NewProber creates a Prober backed by yt-dlp.
func NewProber(cfg config.YouTubeConfig, exec executor.Executor, log logger.Logger) Prober {
	return &implProber{
		binary:      cfg.BinaryPath,
		cookiesFile: cfg.CookiesFile,
		socket:      cfg.SocketTimeout,
		timeout:     cfg.CaptionTimeout,
		executor:    exec,
		logger:      log.With("youtube"),
	}
}

type implCaptionFetcher struct {
	language string
	prober   Prober
	client   *http.Client
	logger   logger.Logger
}

// NewCaptionFetcher creates a CaptionFetcher. A nil client gets one with the
// configured caption timeout.
func NewCaptionFetcher(cfg config.YouTubeConfig, prober Prober, client *http.Client, log logger.Logger) CaptionFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.CaptionTimeout}
	}
	return &implCaptionFetcher{
		language: cfg.CaptionLanguage,
		prober:   prober,
		client:   client,
		logger:   log.With("youtube"),
	}
}

type implDownloader struct {
	binary       string
	cookiesFile  string
	socket       time.Duration
	maxDuration  time.Duration
	audioQuality string
	timeout      time.Duration
	tempDir      string
	policy       retry.Policy

	prober    Prober
	executor  executor.Executor
	logger    logger.Logger
	onAttempt func(outcome string)
}

// DownloaderOption customizes a Downloader.
type DownloaderOption func(*implDownloader)

// WithAttemptHook registers fn to be called after every yt-dlp attempt with
// "success" or "failure".
func WithAttemptHook(fn func(outcome string)) DownloaderOption {
	return func(d *implDownloader) {
		d.onAttempt = fn
	}
}

// NewDownloader creates a Downloader that retries yt-dlp per the download
// section of the config.
func NewDownloader(cfg *config.Config, prober Prober, exec executor.Executor, log logger.Logger, opts ...DownloaderOption) Downloader {
	d := &implDownloader{
		binary:       cfg.YouTube.BinaryPath,
		cookiesFile:  cfg.YouTube.CookiesFile,
		socket:       cfg.YouTube.SocketTimeout,
		maxDuration:  cfg.YouTube.MaxDuration,
		audioQuality: cfg.Download.AudioBitrate,
		timeout:      cfg.Download.Timeout,
		tempDir:      cfg.Paths.Temp,
		policy: retry.Policy{
			Attempts:     cfg.Download.Attempts,
			InitialDelay: cfg.Download.InitialDelay,
			Multiplier:   cfg.Download.Multiplier,
		},
		prober:    prober,
		executor:  exec,
		logger:    log.With("youtube"),
		onAttempt: func(string) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
