package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/tubedigest/internal/config"
	"github.com/nguyentantai21042004/tubedigest/internal/events"
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
	"github.com/nguyentantai21042004/tubedigest/internal/upload"
)

const testURL = "https://youtu.be/dQw4w9WgXcQ"

type fakeAcquirer struct {
	res   *models.TranscriptResult
	err   error
	calls int
}

func (f *fakeAcquirer) Acquire(context.Context, string, bool) (*models.TranscriptResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeSummarizer struct {
	err   error
	texts []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text, kind string) (*summarizer.Result, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return &summarizer.Result{Text: "## Key points\n- **one**", Kind: models.ParseSummaryKind(kind), Provider: "perplexity"}, nil
}

type fakePublisher struct {
	transcripts []events.TranscriptAcquired
	summaries   []events.SummaryGenerated
	err         error
}

func (f *fakePublisher) PublishTranscript(_ context.Context, e events.TranscriptAcquired) error {
	f.transcripts = append(f.transcripts, e)
	return f.err
}

func (f *fakePublisher) PublishSummary(_ context.Context, e events.SummaryGenerated) error {
	f.summaries = append(f.summaries, e)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeRecorder struct {
	allowed, rejected int
	cleanup           []string
}

func (f *fakeRecorder) RateLimitDecision(allowed bool) {
	if allowed {
		f.allowed++
	} else {
		f.rejected++
	}
}

func (f *fakeRecorder) CleanupFailure(kind string) { f.cleanup = append(f.cleanup, kind) }

type fixture struct {
	cfg  *config.Config
	acq  *fakeAcquirer
	sum  *fakeSummarizer
	pub  *fakePublisher
	rec  *fakeRecorder
	proc *implProcessor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths = config.PathsConfig{
		Input:    filepath.Join(root, "input"),
		Output:   filepath.Join(root, "output"),
		Archived: filepath.Join(root, "archived"),
		Temp:     filepath.Join(root, "temp"),
	}
	cfg.RateLimit = config.RateLimitConfig{Requests: 50, Window: time.Hour}
	cfg.Upload = config.UploadConfig{MaxSize: 5 * 1024 * 1024, Extensions: []string{".txt"}}
	cfg.Performance.MaxConcurrent = 2
	require.NoError(t, os.MkdirAll(cfg.Paths.Input, 0755))

	f := &fixture{
		cfg: cfg,
		acq: &fakeAcquirer{res: &models.TranscriptResult{
			Text:    "[00:01] Speaker1: hello there\n[00:05] Speaker2: hi",
			Source:  models.SourceRemoteDiarized,
			VideoID: "dQw4w9WgXcQ",
		}},
		sum: &fakeSummarizer{},
		pub: &fakePublisher{},
		rec: &fakeRecorder{},
	}
	f.proc = New(cfg, Deps{
		Acquirer:   f.acq,
		Summarizer: f.sum,
		Publisher:  f.pub,
		Recorder:   f.rec,
	}, logger.Nop()).(*implProcessor)
	f.proc.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return f
}

func TestAllowEnforcesConfiguredLimit(t *testing.T) {
	f := newFixture(t)
	f.cfg.RateLimit.Requests = 2

	assert.True(t, f.proc.Allow("10.0.0.1"))
	assert.True(t, f.proc.Allow("10.0.0.1"))
	assert.False(t, f.proc.Allow("10.0.0.1"))
	assert.True(t, f.proc.Allow("10.0.0.2"))
	assert.Equal(t, 3, f.rec.allowed)
	assert.Equal(t, 1, f.rec.rejected)
}

func TestProcessURLRateLimitedSkipsAcquisition(t *testing.T) {
	f := newFixture(t)
	f.cfg.RateLimit.Requests = 1

	_, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL, Client: "c"})
	require.NoError(t, err)

	_, err = f.proc.ProcessURL(context.Background(), Request{URL: testURL, Client: "c"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, f.acq.calls)
	assert.Contains(t, models.PublicMessage(err), "Rate limit exceeded")
}

func TestProcessURLWritesOutputsAndPublishes(t *testing.T) {
	f := newFixture(t)

	report, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL, Kind: "detailed", Client: "cli"})
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", report.VideoID)
	assert.Equal(t, models.SummaryDetailed, report.Summary.Kind)
	out := f.cfg.Paths.Output
	assert.Equal(t, []string{
		filepath.Join(out, "dQw4w9WgXcQ_detailed.md"),
		filepath.Join(out, "dQw4w9WgXcQ_detailed.docx"),
		filepath.Join(out, "dQw4w9WgXcQ_detailed_transcript.txt"),
	}, report.Outputs)
	for _, path := range report.Outputs {
		assert.FileExists(t, path)
	}

	md, err := os.ReadFile(report.Outputs[0])
	require.NoError(t, err)
	assert.Contains(t, string(md), "# YouTube video dQw4w9WgXcQ")
	assert.Contains(t, string(md), "Source: https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.Contains(t, string(md), "## Key points")

	require.Len(t, f.pub.transcripts, 1)
	assert.Equal(t, models.SourceRemoteDiarized, f.pub.transcripts[0].Source)
	assert.Equal(t, "cli", f.pub.transcripts[0].Client)
	require.Len(t, f.pub.summaries, 1)
	assert.Equal(t, "perplexity", f.pub.summaries[0].Provider)
	assert.Equal(t, report.Outputs, f.pub.summaries[0].Outputs)
}

func TestTranscriptFileRoundTripsThroughUploadParser(t *testing.T) {
	f := newFixture(t)

	report, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL, TranscriptOnly: true})
	require.NoError(t, err)
	require.Len(t, report.Outputs, 1)

	data, err := os.ReadFile(report.Outputs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Source: REMOTE_DIARIZED")
	assert.Equal(t, f.acq.res.Text, upload.Parse(string(data)))
}

func TestProcessURLTranscriptOnlySkipsSummary(t *testing.T) {
	f := newFixture(t)

	report, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL, TranscriptOnly: true})
	require.NoError(t, err)

	assert.Nil(t, report.Summary)
	assert.Empty(t, f.sum.texts)
	assert.Equal(t, []string{filepath.Join(f.cfg.Paths.Output, "dQw4w9WgXcQ_transcript.txt")}, report.Outputs)
	assert.Len(t, f.pub.transcripts, 1)
	assert.Empty(t, f.pub.summaries)
}

func TestProcessURLAcquisitionErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.acq.res = nil
	f.acq.err = &models.TranscriptError{Source: models.StageAudioDownload, Message: "download failed"}

	_, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL})

	var te *models.TranscriptError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, models.StageAudioDownload, te.Source)
	assert.Empty(t, f.sum.texts)
	assert.Empty(t, f.pub.transcripts)
	assert.NoDirExists(t, f.cfg.Paths.Output)
}

func TestProcessURLSummarizationErrorWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.sum.err = &models.SummarizationError{Provider: "gemini", Message: "all summarization providers failed"}

	_, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL})

	var se *models.SummarizationError
	require.ErrorAs(t, err, &se)
	assert.Len(t, f.pub.transcripts, 1)
	assert.Empty(t, f.pub.summaries)
	assert.NoDirExists(t, f.cfg.Paths.Output)
}

func TestProcessURLIgnoresPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	report, err := f.proc.ProcessURL(context.Background(), Request{URL: testURL})
	require.NoError(t, err)
	assert.Len(t, report.Outputs, 3)
}

func writeUpload(t *testing.T, f *fixture, name, content string) string {
	t.Helper()
	path := filepath.Join(f.cfg.Paths.Input, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessTranscriptFileSummarizesAndArchives(t *testing.T) {
	f := newFixture(t)
	path := writeUpload(t, f, "My Talk.txt", "TRANSCRIPT\nVideo: x\n\n"+transcriptRule+"\n\nbody line\n\n"+transcriptRule+"\nfooter\n")

	require.NoError(t, f.proc.ProcessTranscriptFile(context.Background(), path))

	assert.Equal(t, []string{"body line"}, f.sum.texts)
	assert.FileExists(t, filepath.Join(f.cfg.Paths.Output, "My_Talk_normal.md"))
	assert.FileExists(t, filepath.Join(f.cfg.Paths.Output, "My_Talk_normal.docx"))
	assert.NoFileExists(t, filepath.Join(f.cfg.Paths.Output, "My_Talk_normal_transcript.txt"))
	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(f.cfg.Paths.Archived, "My Talk.txt"))

	require.Len(t, f.pub.summaries, 1)
	assert.Equal(t, "My Talk.txt", f.pub.summaries[0].File)
}

func TestProcessTranscriptFileRejectsExtension(t *testing.T) {
	f := newFixture(t)
	path := writeUpload(t, f, "notes.pdf", "text")

	err := f.proc.ProcessTranscriptFile(context.Background(), path)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.FileExists(t, path)
	assert.Empty(t, f.sum.texts)
}

func TestProcessTranscriptFileRejectsOversize(t *testing.T) {
	f := newFixture(t)
	f.cfg.Upload.MaxSize = 4
	path := writeUpload(t, f, "big.txt", "more than four bytes")

	err := f.proc.ProcessTranscriptFile(context.Background(), path)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "File too large")
}

func TestProcessTranscriptFileKeepsFailedUploadInInbox(t *testing.T) {
	f := newFixture(t)
	f.sum.err = &models.SummarizationError{Provider: "none", Message: "no summarization provider configured"}
	path := writeUpload(t, f, "talk.txt", "hello")

	require.Error(t, f.proc.ProcessTranscriptFile(context.Background(), path))
	assert.FileExists(t, path)
}

func TestProcessTranscriptFileRateLimited(t *testing.T) {
	f := newFixture(t)
	f.cfg.RateLimit.Requests = 1
	first := writeUpload(t, f, "one.txt", "first")
	second := writeUpload(t, f, "two.txt", "second")

	require.NoError(t, f.proc.ProcessTranscriptFile(context.Background(), first))
	err := f.proc.ProcessTranscriptFile(context.Background(), second)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.FileExists(t, second)
	assert.Equal(t, []string{"first"}, f.sum.texts)

	// inbox files do not eat into a CLI caller's quota
	assert.True(t, f.proc.Allow(DefaultClient))
}

func TestMoveToArchivedAvoidsOverwrite(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.cfg.Paths.Archived, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.Paths.Archived, "talk.txt"), []byte("old"), 0644))
	path := writeUpload(t, f, "talk.txt", "new")

	dest, err := f.proc.moveToArchived(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.cfg.Paths.Archived, "talk_20260304-050607.txt"), dest)
	old, err := os.ReadFile(filepath.Join(f.cfg.Paths.Archived, "talk.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestSemaphoreHonoursContext(t *testing.T) {
	s := newSemaphore(1)
	require.NoError(t, s.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.acquire(ctx), context.DeadlineExceeded)

	s.release()
	assert.NoError(t, s.acquire(context.Background()))
}

func TestSummarizeFileLeavesSourceInPlace(t *testing.T) {
	f := newFixture(t)
	path := writeUpload(t, f, "lecture.txt", "plain transcript")

	report, err := f.proc.SummarizeFile(context.Background(), path, "concise")
	require.NoError(t, err)

	assert.Equal(t, models.SummaryConcise, report.Summary.Kind)
	assert.Len(t, report.Outputs, 2)
	assert.FileExists(t, path)
	assert.NoDirExists(t, f.cfg.Paths.Archived)
}

func TestSemaphoreBusy(t *testing.T) {
	s := newSemaphore(2)
	assert.Equal(t, 2, s.capacity())
	require.NoError(t, s.acquire(context.Background()))
	assert.False(t, s.busy())
	require.NoError(t, s.acquire(context.Background()))
	assert.True(t, s.busy())
	s.release()
	assert.False(t, s.busy())
}
