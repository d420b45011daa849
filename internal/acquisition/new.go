package acquisition

import (
	"github.com/nguyentantai21042004/tubedigest/internal/logger"
	"github.com/nguyentantai21042004/tubedigest/internal/transcriber"
)

type implOrchestrator struct {
	captions CaptionSource
	audio    AudioSource
	local    transcriber.Transcriber
	remote   transcriber.Transcriber
	recorder Recorder
	logger   logger.Logger
}

// New creates an Orchestrator. remote may be nil when no diarization backend
// is configured; rec may be nil.
func New(captions CaptionSource, audio AudioSource, local, remote transcriber.Transcriber, rec Recorder, log logger.Logger) Orchestrator {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &implOrchestrator{
		captions: captions,
		audio:    audio,
		local:    local,
		remote:   remote,
		recorder: rec,
		logger:   log.With("acquisition"),
	}
}
