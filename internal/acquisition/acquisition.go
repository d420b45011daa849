package acquisition

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
	"github.com/nguyentantai21042004/tubedigest/internal/transcriber"
	"github.com/nguyentantai21042004/tubedigest/internal/youtube"
)

const stageValidation = "validation"

// run tracks one Acquire call through its states.
type run struct {
	o       *implOrchestrator
	videoID string
	state   State
	started time.Time
}

func (r *run) to(ctx context.Context, next State) {
	r.o.logger.Debug(ctx, "acquisition %s: %s -> %s", r.videoID, r.state, next)
	r.state = next
}

func (r *run) fail(ctx context.Context, stage string, err error) error {
	r.to(ctx, StateFailed)
	r.o.recorder.AcquisitionFailed(stage, time.Since(r.started))
	r.o.logger.Error(ctx, "Transcript acquisition failed at %s: %v", stage, err)
	return err
}

func (r *run) done(ctx context.Context, res *models.TranscriptResult) *models.TranscriptResult {
	r.to(ctx, StateDone)
	r.o.recorder.AcquisitionSucceeded(res.Source, time.Since(r.started))
	r.o.logger.Info(ctx, "Transcript acquired for %s from %s (%d characters)", r.videoID, res.Source, len(res.Text))
	return res
}

func (o *implOrchestrator) Acquire(ctx context.Context, url string, diarize bool) (*models.TranscriptResult, error) {
	r := &run{o: o, state: StateStart, started: time.Now()}

	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		return nil, r.fail(ctx, stageValidation, err)
	}
	r.videoID = videoID

	// the remote backend is optional; refuse before spending a download on it
	if diarize && o.remote == nil {
		return nil, r.fail(ctx, models.StageRemoteDiarized, &models.TranscriptError{
			Source:  models.StageRemoteDiarized,
			Message: "diarized transcription is not configured",
		})
	}

	if !diarize {
		r.to(ctx, StateCaptionLookup)
		res, err := o.captions.Fetch(ctx, videoID)
		switch {
		case err != nil:
			o.logger.Warn(ctx, "Caption lookup failed for %s, falling back to audio: %v", videoID, err)
		case res != nil:
			return r.done(ctx, res), nil
		default:
			o.logger.Info(ctx, "No captions for %s, falling back to audio", videoID)
		}
	}

	r.to(ctx, StateAudioDownload)
	handle, err := o.audio.Download(ctx, url)
	if err != nil {
		var ve *models.ValidationError
		var te *models.TranscriptError
		if !errors.As(err, &ve) && !errors.As(err, &te) {
			err = models.NewAudioDownloadError("audio download failed", err)
		}
		return nil, r.fail(ctx, models.StageAudioDownload, err)
	}
	defer handle.Release(ctx)

	tr, source, next := o.local, models.SourceLocalModel, StateLocalTranscribe
	if diarize {
		tr, source, next = o.remote, models.SourceRemoteDiarized, StateRemoteTranscribe
	}
	r.to(ctx, next)

	hints := transcriber.Hints{}
	if handle.Info != nil {
		hints.Title = handle.Info.Title
		hints.Duration = handle.Info.Duration
	}

	text, err := tr.Transcribe(ctx, handle.Path, hints)
	if err != nil {
		return nil, r.fail(ctx, string(source), &models.TranscriptError{
			Source:  string(source),
			Message: "transcription failed",
			Err:     err,
		})
	}

	res, err := models.NewTranscriptResult(text, source, videoID)
	if err != nil {
		return nil, r.fail(ctx, string(source), err)
	}
	return r.done(ctx, res), nil
}
