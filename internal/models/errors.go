package models

import (
	"errors"
	"fmt"
)

// Stage names carried by TranscriptError.Source.
const (
	StageCaption        = "caption"
	StageAudioDownload  = "audio_download"
	StageLocalModel     = "local_model"
	StageRemoteDiarized = "remote_diarized"
)

// ValidationError is the caller's fault: bad URL, oversized video, bad file.
// It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// TranscriptError reports a failed acquisition stage.
type TranscriptError struct {
	Source  string
	Message string
	Err     error
}

func (e *TranscriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcript error (%s): %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("transcript error (%s): %s", e.Source, e.Message)
}

func (e *TranscriptError) Unwrap() error { return e.Err }

// NewAudioDownloadError tags a download failure with the audio_download stage.
func NewAudioDownloadError(reason string, err error) *TranscriptError {
	return &TranscriptError{Source: StageAudioDownload, Message: reason, Err: err}
}

// SummarizationError is tagged with the provider that failed last.
type SummarizationError struct {
	Provider string
	Message  string
	Err      error
}

func (e *SummarizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("summarization error (%s): %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("summarization error (%s): %s", e.Provider, e.Message)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// PublicMessage renders err for an end user. Only the structured part of a
// typed error is exposed; wrapped causes may carry paths or keys and stay in
// the server logs.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var te *TranscriptError
	if errors.As(err, &te) {
		return fmt.Sprintf("transcript error (%s): %s", te.Source, te.Message)
	}
	var se *SummarizationError
	if errors.As(err, &se) {
		return fmt.Sprintf("summarization error (%s): %s", se.Provider, se.Message)
	}
	return "internal error"
}
