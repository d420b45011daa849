package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

const helloWorldJSON3 = `{"events":[
	{"tStartMs":5000,"segs":[{"utf8":"world"}]},
	{"tStartMs":0,"segs":[{"utf8":"Hel"},{"utf8":"lo"}]},
	{"tStartMs":2500,"segs":[{"utf8":"\n"}]},
	{"tStartMs":3000}
]}`

func captionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFetcher(t *testing.T, prober Prober) CaptionFetcher {
	cfg := testConfig(t)
	return NewCaptionFetcher(cfg.YouTube, prober, nil, logger.Nop())
}

func TestFetchCaptions(t *testing.T) {
	srv := captionServer(t, http.StatusOK, helloWorldJSON3)
	prober := &fakeProber{info: &VideoInfo{
		ID: "dQw4w9WgXcQ",
		Subtitles: map[string][]Track{
			"pl": {{Ext: "vtt", URL: srv.URL + "/vtt"}, {Ext: "json3", URL: srv.URL + "/json3"}},
		},
	}}

	res, err := newTestFetcher(t, prober).Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "[00:00] Hello\n[00:05] world", res.Text)
	assert.Equal(t, models.SourceCaption, res.Source)
	assert.Equal(t, "dQw4w9WgXcQ", res.VideoID)
}

func TestFetchCaptionsNoTracks(t *testing.T) {
	prober := &fakeProber{info: &VideoInfo{ID: "dQw4w9WgXcQ"}}

	res, err := newTestFetcher(t, prober).Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestFetchCaptionsEmptyTrack(t *testing.T) {
	srv := captionServer(t, http.StatusOK, `{"events":[{"tStartMs":0,"segs":[{"utf8":"  "}]}]}`)
	prober := &fakeProber{info: &VideoInfo{
		AutomaticCaptions: map[string][]Track{"en": {{Ext: "json3", URL: srv.URL}}},
	}}

	res, err := newTestFetcher(t, prober).Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestFetchCaptionsHTTPError(t *testing.T) {
	srv := captionServer(t, http.StatusTooManyRequests, "slow down")
	prober := &fakeProber{info: &VideoInfo{
		Subtitles: map[string][]Track{"pl": {{Ext: "json3", URL: srv.URL}}},
	}}

	res, err := newTestFetcher(t, prober).Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestFetchCaptionsProbeError(t *testing.T) {
	prober := &fakeProber{err: errors.New("yt-dlp exploded")}

	_, err := newTestFetcher(t, prober).Fetch(context.Background(), "dQw4w9WgXcQ")
	assert.Error(t, err)
}

func TestSelectTrack(t *testing.T) {
	j := func(url string) []Track { return []Track{{Ext: "json3", URL: url}} }

	tests := []struct {
		name     string
		info     *VideoInfo
		wantURL  string
		wantAuto bool
		wantOK   bool
	}{
		{
			name: "manual preferred language first",
			info: &VideoInfo{
				Subtitles:         map[string][]Track{"en": j("manual-en"), "pl": j("manual-pl")},
				AutomaticCaptions: map[string][]Track{"pl": j("auto-pl")},
			},
			wantURL: "manual-pl", wantOK: true,
		},
		{
			name: "automatic preferred language before other manual",
			info: &VideoInfo{
				Subtitles:         map[string][]Track{"en": j("manual-en")},
				AutomaticCaptions: map[string][]Track{"pl": j("auto-pl")},
			},
			wantURL: "auto-pl", wantAuto: true, wantOK: true,
		},
		{
			name: "any manual track",
			info: &VideoInfo{
				Subtitles:         map[string][]Track{"de": j("manual-de")},
				AutomaticCaptions: map[string][]Track{"en": j("auto-en")},
			},
			wantURL: "manual-de", wantOK: true,
		},
		{
			name: "original language automatic track",
			info: &VideoInfo{
				AutomaticCaptions: map[string][]Track{"af": j("auto-af"), "en-orig": j("auto-en-orig"), "zu": j("auto-zu")},
			},
			wantURL: "auto-en-orig", wantAuto: true, wantOK: true,
		},
		{
			name: "regional variant of preferred language",
			info: &VideoInfo{
				Subtitles: map[string][]Track{"pl-PL": j("manual-pl-PL")},
			},
			wantURL: "manual-pl-PL", wantOK: true,
		},
		{
			name: "tracks without json3 are skipped",
			info: &VideoInfo{
				Subtitles: map[string][]Track{"pl": {{Ext: "vtt", URL: "vtt"}}},
			},
			wantOK: false,
		},
		{name: "nil info", info: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := selectTrack(tt.info, "pl")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantURL, got.url)
				assert.Equal(t, tt.wantAuto, got.automatic)
			}
		})
	}
}

func TestParseJSON3LongOffsets(t *testing.T) {
	var doc json3
	require.NoError(t, json.Unmarshal([]byte(`{"events":[{"tStartMs":3661000,"segs":[{"utf8":"test"}]}]}`), &doc))

	assert.Equal(t, "[01:01:01] test", models.FormatLines(parseJSON3(doc)))
}
