package youtube

import (
	"context"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

// Track is one downloadable format of a caption track as listed by yt-dlp.
type Track struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// VideoInfo is the subset of yt-dlp metadata the pipeline needs.
type VideoInfo struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Duration          float64            `json:"duration"`
	Subtitles         map[string][]Track `json:"subtitles"`
	AutomaticCaptions map[string][]Track `json:"automatic_captions"`
}

// Prober reads video metadata without downloading media.
type Prober interface {
	Probe(ctx context.Context, url string) (*VideoInfo, error)
}

// CaptionFetcher returns a caption-based transcript, or nil when the video
// has no usable caption track.
type CaptionFetcher interface {
	Fetch(ctx context.Context, videoID string) (*models.TranscriptResult, error)
}

// Downloader fetches the audio track into a private temporary directory.
// The caller owns the returned handle and must Release it.
type Downloader interface {
	Download(ctx context.Context, url string) (*DownloadHandle, error)
}
