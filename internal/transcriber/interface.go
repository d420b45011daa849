package transcriber

import (
	"context"
	"errors"
)

// ErrProcessingTimeout is returned when an uploaded file stays in the
// processing state longer than the configured wait.
var ErrProcessingTimeout = errors.New("remote processing timed out")

// Hints carry what is already known about the audio.
type Hints struct {
	Title    string
	Duration float64
	Language string
}

// Transcriber turns a local audio file into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, hints Hints) (string, error)
}
