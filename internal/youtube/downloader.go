package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/retry"
)

const (
	audioFormat    = "ba/best"
	audioCodec     = "mp3"
	audioBaseName  = "audio"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	fragmentRetry  = "3"
	audioFileMode  = 0o600
	errAudioFailed = "audio download failed"
)

var errAudioMissing = errors.New("downloaded audio file not found")

// DownloadHandle owns a downloaded audio file and its private directory.
type DownloadHandle struct {
	Path string
	Info *VideoInfo

	dir    string
	once   sync.Once
	logger logger.Logger
}

// NewDownloadHandle wraps an audio file living in its own directory dir.
func NewDownloadHandle(path, dir string, info *VideoInfo, log logger.Logger) *DownloadHandle {
	return &DownloadHandle{Path: path, Info: info, dir: dir, logger: log}
}

// Release removes the audio file and its directory. It is safe to call more
// than once; failures are logged, not returned.
func (h *DownloadHandle) Release(ctx context.Context) {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if err := os.RemoveAll(h.dir); err != nil {
			h.logger.Warn(ctx, "Failed to clean up audio dir %s: %v", h.dir, err)
			return
		}
		h.logger.Debug(ctx, "Cleaned up audio dir: %s", h.dir)
	})
}

func (d *implDownloader) Download(ctx context.Context, url string) (*DownloadHandle, error) {
	info, err := d.prober.Probe(ctx, url)
	if err != nil {
		return nil, models.NewAudioDownloadError("could not read video metadata", err)
	}

	if d.maxDuration > 0 && info.Duration > d.maxDuration.Seconds() {
		return nil, &models.ValidationError{
			Field: "url",
			Message: fmt.Sprintf("video too long (%s), maximum is %s",
				time.Duration(info.Duration*float64(time.Second)).Round(time.Second), d.maxDuration),
		}
	}

	// MkdirTemp creates the directory with 0700
	dir, err := os.MkdirTemp(d.tempDir, "tubedigest-audio-*")
	if err != nil {
		return nil, models.NewAudioDownloadError("could not create temp dir", err)
	}

	d.logger.Info(ctx, "Downloading audio: %s (%.0fs)", url, info.Duration)
	path, err := retry.Do(ctx, d.policy, d.logger, "Audio download", func(ctx context.Context) (string, error) {
		path, err := d.fetch(ctx, dir, url)
		if err != nil {
			d.onAttempt("failure")
			return "", err
		}
		d.onAttempt("success")
		return path, nil
	})
	if err == nil {
		err = os.Chmod(path, audioFileMode)
	}
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			d.logger.Warn(ctx, "Failed to clean up audio dir %s: %v", dir, rmErr)
		}
		return nil, models.NewAudioDownloadError(errAudioFailed, err)
	}

	d.logger.Info(ctx, "[OK] Audio downloaded: %s", path)
	return NewDownloadHandle(path, dir, info, d.logger), nil
}

// fetch runs one yt-dlp attempt and returns the produced file.
func (d *implDownloader) fetch(ctx context.Context, dir, url string) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	args := []string{
		"-f", audioFormat,
		"-x",
		"--audio-format", audioCodec,
		"--audio-quality", d.audioQuality,
		"--no-playlist",
		"--no-warnings",
		"--fragment-retries", fragmentRetry,
		"--user-agent", userAgent,
		"-o", filepath.Join(dir, audioBaseName+".%(ext)s"),
	}
	args = append(args, commonArgs(d.socket, d.cookiesFile)...)
	args = append(args, url)

	if _, err := d.executor.Execute(ctx, d.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	for _, candidate := range audioCandidates(dir) {
		if st, err := os.Stat(candidate); err == nil && st.Mode().IsRegular() && st.Size() > 0 {
			return candidate, nil
		}
	}
	return "", errAudioMissing
}

// audioCandidates lists the exact paths yt-dlp may leave behind after
// extraction. Nothing else in dir is trusted.
func audioCandidates(dir string) []string {
	return []string{filepath.Join(dir, audioBaseName+"."+audioCodec)}
}
