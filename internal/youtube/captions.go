package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

const captionFormat = "json3"

// json3 is YouTube's timed-text format.
type json3 struct {
	Events []struct {
		TStartMs int64 `json:"tStartMs"`
		Segs     []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

type captionTrack struct {
	lang      string
	automatic bool
	url       string
}

func (f *implCaptionFetcher) Fetch(ctx context.Context, videoID string) (*models.TranscriptResult, error) {
	info, err := f.prober.Probe(ctx, WatchURL(videoID))
	if err != nil {
		return nil, fmt.Errorf("list caption tracks: %w", err)
	}

	track, ok := selectTrack(info, f.language)
	if !ok {
		f.logger.Info(ctx, "No caption track for %s", videoID)
		return nil, nil
	}

	f.logger.Info(ctx, "Fetching captions for %s (lang=%s, automatic=%t)", videoID, track.lang, track.automatic)
	lines, err := f.download(ctx, track.url)
	if err != nil {
		return nil, err
	}

	text := models.FormatLines(lines)
	if strings.TrimSpace(text) == "" {
		f.logger.Info(ctx, "Caption track for %s is empty", videoID)
		return nil, nil
	}

	f.logger.Info(ctx, "[OK] Captions fetched (%d characters)", len(text))
	return models.NewTranscriptResult(text, models.SourceCaption, videoID)
}

func (f *implCaptionFetcher) download(ctx context.Context, url string) ([]models.TimestampedLine, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build caption request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch captions: unexpected status %d", resp.StatusCode)
	}

	var doc json3
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode captions: %w", err)
	}
	return parseJSON3(doc), nil
}

func parseJSON3(doc json3) []models.TimestampedLine {
	lines := make([]models.TimestampedLine, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.Join(strings.Fields(b.String()), " ")
		if text == "" {
			continue
		}
		lines = append(lines, models.TimestampedLine{
			Offset: float64(ev.TStartMs) / 1000,
			Text:   text,
		})
	}
	return lines
}

// selectTrack picks, in order: a manual track in the preferred language, an
// automatic one in that language, any manual track, then any automatic track
// with the original-language ASR track first.
func selectTrack(info *VideoInfo, language string) (captionTrack, bool) {
	if info == nil {
		return captionTrack{}, false
	}

	if t, ok := findLanguage(info.Subtitles, language, false); ok {
		return t, true
	}
	if t, ok := findLanguage(info.AutomaticCaptions, language, true); ok {
		return t, true
	}
	if t, ok := firstTrack(info.Subtitles, false); ok {
		return t, true
	}
	return firstTrack(info.AutomaticCaptions, true)
}

func findLanguage(tracks map[string][]Track, language string, automatic bool) (captionTrack, bool) {
	if language == "" {
		return captionTrack{}, false
	}
	for _, lang := range sortedKeys(tracks) {
		if lang == language || lang == language+"-orig" || strings.HasPrefix(lang, language+"-") {
			if url := formatURL(tracks[lang]); url != "" {
				return captionTrack{lang: lang, automatic: automatic, url: url}, true
			}
		}
	}
	return captionTrack{}, false
}

func firstTrack(tracks map[string][]Track, automatic bool) (captionTrack, bool) {
	keys := sortedKeys(tracks)
	if automatic {
		// auto-translated tracks are listed for every language; the -orig
		// track is the one recognized from the audio
		sort.SliceStable(keys, func(i, j int) bool {
			return strings.HasSuffix(keys[i], "-orig") && !strings.HasSuffix(keys[j], "-orig")
		})
	}
	for _, lang := range keys {
		if url := formatURL(tracks[lang]); url != "" {
			return captionTrack{lang: lang, automatic: automatic, url: url}, true
		}
	}
	return captionTrack{}, false
}

func formatURL(formats []Track) string {
	for _, t := range formats {
		if t.Ext == captionFormat && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func sortedKeys(m map[string][]Track) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
