package transcriber

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/pkg/gemini"
)

type fakeGemini struct {
	uploadErr   error
	states      []gemini.FileState
	getErr      error
	generate    *gemini.GenerateResult
	generateErr error
	deleteErr   error

	uploads  int
	polls    int
	deleted  []string
	requests []gemini.GenerateRequest
}

func (f *fakeGemini) Upload(_ context.Context, path, mimeType string) (*gemini.File, error) {
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &gemini.File{Name: "files/abc", URI: "https://files/abc", MIMEType: mimeType, State: f.state()}, nil
}

func (f *fakeGemini) state() gemini.FileState {
	if len(f.states) == 0 {
		return gemini.StateReady
	}
	s := f.states[0]
	if len(f.states) > 1 {
		f.states = f.states[1:]
	}
	return s
}

func (f *fakeGemini) GetFile(_ context.Context, name string) (*gemini.File, error) {
	f.polls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &gemini.File{Name: name, URI: "https://files/abc", MIMEType: "audio/mpeg", State: f.state()}, nil
}

func (f *fakeGemini) DeleteFile(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return f.deleteErr
}

func (f *fakeGemini) Generate(_ context.Context, req gemini.GenerateRequest) (*gemini.GenerateResult, error) {
	f.requests = append(f.requests, req)
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.generate, nil
}

func newTestRemote(client gemini.Client) *implRemote {
	cfg := &config.Config{
		YouTube: config.YouTubeConfig{CaptionLanguage: "pl"},
		Gemini: config.GeminiConfig{
			TranscriptionModel: "gemini-2.5-flash",
			Temperature:        0.7,
			PollInterval:       2 * time.Second,
			MaxProcessingWait:  10 * time.Second,
		},
	}
	r := NewRemote(cfg, client, logger.Nop()).(*implRemote)

	// virtual clock: sleeping advances time instantly
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	r.sleep = func(ctx context.Context, d time.Duration) error {
		now = now.Add(d)
		return ctx.Err()
	}
	return r
}

func TestRemoteTranscribe(t *testing.T) {
	client := &fakeGemini{
		states:   []gemini.FileState{gemini.StateProcessing, gemini.StateProcessing, gemini.StateReady},
		generate: &gemini.GenerateResult{Text: "  [00:00:01] Speaker1: Dzień dobry\n", FinishReason: "STOP"},
	}
	r := newTestRemote(client)

	text, err := r.Transcribe(context.Background(), "/tmp/x/audio.mp3", Hints{Title: "Wywiad", Duration: 3725})
	require.NoError(t, err)
	assert.Equal(t, "[00:00:01] Speaker1: Dzień dobry", text)
	assert.Equal(t, 2, client.polls)
	assert.Equal(t, []string{"files/abc"}, client.deleted)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "https://files/abc", req.File.URI)
	assert.Contains(t, req.Prompt, "[HH:MM:SS] Speaker1: text")
	assert.Contains(t, req.Prompt, "Wywiad")
	assert.Contains(t, req.Prompt, "01:02:05")
	assert.Contains(t, req.Prompt, "Polish")
}

func TestRemoteFailedState(t *testing.T) {
	client := &fakeGemini{states: []gemini.FileState{gemini.StateProcessing, gemini.StateFailed}}
	r := newTestRemote(client)

	_, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	require.Error(t, err)
	assert.Empty(t, client.requests)
	assert.Equal(t, []string{"files/abc"}, client.deleted)
}

func TestRemoteProcessingTimeout(t *testing.T) {
	client := &fakeGemini{states: []gemini.FileState{gemini.StateProcessing}}
	r := newTestRemote(client)

	_, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	assert.ErrorIs(t, err, ErrProcessingTimeout)
	// 10s budget at a 2s interval
	assert.Equal(t, 5, client.polls)
	assert.Equal(t, []string{"files/abc"}, client.deleted)
}

func TestRemoteCallTimeoutDoesNotCapPolling(t *testing.T) {
	client := &fakeGemini{states: []gemini.FileState{gemini.StateProcessing}}
	r := newTestRemote(client)
	r.now = time.Now
	r.sleep = sleepCtx
	r.pollInterval = 10 * time.Millisecond
	r.maxWait = 200 * time.Millisecond
	r.timeout = 50 * time.Millisecond

	_, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	assert.ErrorIs(t, err, ErrProcessingTimeout)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"files/abc"}, client.deleted)
}

func TestRemoteCallerCancelDuringPolling(t *testing.T) {
	client := &fakeGemini{states: []gemini.FileState{gemini.StateProcessing}}
	r := newTestRemote(client)
	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := r.Transcribe(ctx, "audio.mp3", Hints{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "files/abc")
	assert.Equal(t, []string{"files/abc"}, client.deleted)
}

func TestRemoteEmptyResponse(t *testing.T) {
	client := &fakeGemini{generate: &gemini.GenerateResult{FinishReason: "SAFETY", BlockReason: "PROHIBITED_CONTENT"}}
	r := newTestRemote(client)

	_, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
	assert.Contains(t, err.Error(), "PROHIBITED_CONTENT")
	assert.Equal(t, []string{"files/abc"}, client.deleted)
}

func TestRemoteDeleteFailureNotEscalated(t *testing.T) {
	client := &fakeGemini{
		generate:  &gemini.GenerateResult{Text: "[00:00:00] Speaker1: ok"},
		deleteErr: errors.New("permission denied"),
	}
	r := newTestRemote(client)

	text, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	require.NoError(t, err)
	assert.Equal(t, "[00:00:00] Speaker1: ok", text)
}

func TestRemoteUploadFailureNothingToDelete(t *testing.T) {
	client := &fakeGemini{uploadErr: errors.New("quota")}
	r := newTestRemote(client)

	_, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	require.Error(t, err)
	assert.Empty(t, client.deleted)
}

func TestRemoteGenerateErrorDeletes(t *testing.T) {
	client := &fakeGemini{generateErr: errors.New("500")}
	r := newTestRemote(client)

	_, err := r.Transcribe(context.Background(), "audio.mp3", Hints{})
	require.Error(t, err)
	assert.Equal(t, []string{"files/abc"}, client.deleted)
}

func TestDiarizationPrompt(t *testing.T) {
	p := diarizationPrompt(Hints{}, "en")
	assert.Contains(t, p, "English")
	assert.NotContains(t, p, "Video title")

	p = diarizationPrompt(Hints{Language: "xx", Duration: 90}, "pl")
	assert.Contains(t, p, "the language spoken")
	assert.Contains(t, p, "later than 00:01:30")

	p = diarizationPrompt(Hints{Duration: 330}, "en")
	assert.Contains(t, p, "Recording length: 00:05:30")
	assert.Contains(t, p, "later than 00:05:30")
}

func TestClockTime(t *testing.T) {
	tests := map[float64]string{
		0:      "00:00:00",
		59.9:   "00:00:59",
		330:    "00:05:30",
		3725:   "01:02:05",
		-4:     "00:00:00",
		360000: "100:00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, clockTime(in), "clockTime(%v)", in)
	}
}

func TestAudioMIMEType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", audioMIMEType("/a/audio.mp3"))
	assert.Equal(t, "audio/wav", audioMIMEType("a.WAV"))
	assert.Equal(t, "application/octet-stream", audioMIMEType("a.unknownext"))
}
