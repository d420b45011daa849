package transcriber

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/tubedigest/pkg/gemini"
)

// blob deletion runs after the request context may already be gone
const deleteTimeout = 30 * time.Second

var languageNames = map[string]string{
	"pl": "Polish",
	"en": "English",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"vi": "Vietnamese",
}

// callCtx bounds a single API call. Polling is bounded by maxWait instead.
func (t *implRemote) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.timeout)
}

func (t *implRemote) Transcribe(ctx context.Context, audioPath string, hints Hints) (text string, err error) {
	t.logger.Info(ctx, "Uploading audio to Gemini: %s", audioPath)
	uploadCtx, cancelUpload := t.callCtx(ctx)
	file, err := t.client.Upload(uploadCtx, audioPath, audioMIMEType(audioPath))
	cancelUpload()
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	defer t.deleteFile(ctx, file.Name)

	file, err = t.waitReady(ctx, file)
	if err != nil {
		return "", err
	}

	t.logger.Info(ctx, "Audio ready. Generating transcript...")
	temperature := t.temperature
	genCtx, cancelGen := t.callCtx(ctx)
	res, err := t.client.Generate(genCtx, gemini.GenerateRequest{
		Model:       t.model,
		Prompt:      diarizationPrompt(hints, t.language),
		File:        file,
		Temperature: &temperature,
	})
	cancelGen()
	if err != nil {
		return "", fmt.Errorf("generate transcript: %w", err)
	}

	text = strings.TrimSpace(res.Text)
	if text == "" {
		return "", fmt.Errorf("empty transcription (finish_reason=%q, block_reason=%q)", res.FinishReason, res.BlockReason)
	}

	t.logger.Info(ctx, "[OK] Gemini transcription complete (%d chars)", len(text))
	return text, nil
}

// waitReady polls until the file leaves the processing state or maxWait elapses.
func (t *implRemote) waitReady(ctx context.Context, file *gemini.File) (*gemini.File, error) {
	deadline := t.now().Add(t.maxWait)

	for file.State == gemini.StateProcessing {
		if t.maxWait > 0 && !t.now().Before(deadline) {
			return nil, fmt.Errorf("file %s still processing after %s: %w", file.Name, t.maxWait, ErrProcessingTimeout)
		}

		t.logger.Debug(ctx, "Waiting for audio processing...")
		if err := t.sleep(ctx, t.pollInterval); err != nil {
			return nil, fmt.Errorf("wait for %s: %w", file.Name, err)
		}

		pollCtx, cancel := t.callCtx(ctx)
		next, err := t.client.GetFile(pollCtx, file.Name)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("poll file state: %w", err)
		}
		file = next
	}

	if file.State == gemini.StateFailed {
		return nil, fmt.Errorf("remote processing failed for %s", file.Name)
	}
	return file, nil
}

func (t *implRemote) deleteFile(ctx context.Context, name string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()

	if err := t.client.DeleteFile(ctx, name); err != nil {
		t.logger.Warn(ctx, "Failed to delete remote file %s: %v", name, err)
		return
	}
	t.logger.Debug(ctx, "Deleted remote file: %s", name)
}

func diarizationPrompt(hints Hints, defaultLanguage string) string {
	language := hints.Language
	if language == "" {
		language = defaultLanguage
	}
	name, ok := languageNames[language]
	if !ok {
		name = "the language spoken in the recording"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transcribe this audio in %s.\n", name)
	b.WriteString("Identify the different speakers and label them Speaker1, Speaker2 and so on.\n")
	b.WriteString("Format every line exactly like this, one utterance per line:\n")
	b.WriteString("[HH:MM:SS] Speaker1: text\n")
	b.WriteString("[HH:MM:SS] Speaker2: text\n")
	b.WriteString("Timestamps mark the start of the utterance, measured from the beginning of the recording.\n")

	if hints.Title != "" || hints.Duration > 0 {
		b.WriteString("\nContext:\n")
		if hints.Title != "" {
			fmt.Fprintf(&b, "- Video title: %s\n", hints.Title)
		}
		if hints.Duration > 0 {
			ts := clockTime(hints.Duration)
			fmt.Fprintf(&b, "- Recording length: %s\n", ts)
			fmt.Fprintf(&b, "Never produce a timestamp later than %s.\n", ts)
		}
	}

	b.WriteString("Output only the transcript lines, no commentary.")
	return b.String()
}

// clockTime renders seconds as HH:MM:SS, matching the line format the model is asked for.
func clockTime(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func audioMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
