package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

// whisperOutput is the document written by whisper-cli -oj.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func (t *implLocal) Transcribe(ctx context.Context, audioPath string, hints Hints) (string, error) {
	if err := t.ready(ctx); err != nil {
		return "", err
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	wavPath, err := t.extractAudio(ctx, audioPath)
	if err != nil {
		return "", err
	}
	defer t.cleanupTempFile(ctx, wavPath)

	language := hints.Language
	if language == "" {
		language = t.cfg.Language
	}

	jsonPath, err := t.transcribe(ctx, wavPath, language)
	if err != nil {
		return "", err
	}
	defer t.cleanupTempFile(ctx, jsonPath)

	lines, err := readWhisperJSON(jsonPath)
	if err != nil {
		return "", err
	}

	text := models.FormatLines(lines)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("whisper produced no text")
	}
	t.logger.Info(ctx, "[OK] Transcription complete (%d characters)", len(text))
	return text, nil
}

// ready verifies the model and binary once per process and caches the result.
func (t *implLocal) ready(ctx context.Context) error {
	t.once.Do(func() {
		t.logger.Info(ctx, "Initializing Whisper model: %s", t.cfg.ModelPath)
		if _, err := os.Stat(t.cfg.ModelPath); err != nil {
			t.initErr = fmt.Errorf("whisper model: %w", err)
			return
		}
		if _, err := t.lookPath(t.cfg.BinaryPath); err != nil {
			t.initErr = fmt.Errorf("whisper binary: %w", err)
			return
		}
		t.logger.Info(ctx, "[OK] Whisper model ready")
	})
	return t.initErr
}

// extractAudio converts the download to 16kHz mono WAV, the input whisper expects.
func (t *implLocal) extractAudio(ctx context.Context, audioPath string) (string, error) {
	wavPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_16k.wav"

	// -vn: drop video, -ar/-ac: 16kHz mono, -c:a: 16-bit PCM
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	t.logger.Debug(ctx, "Converting audio: %s -> %s", audioPath, wavPath)
	if _, err := t.executor.Execute(ctx, t.ffmpeg, args...); err != nil {
		t.cleanupTempFile(ctx, wavPath)
		return "", fmt.Errorf("ffmpeg convert audio: %w", err)
	}
	return wavPath, nil
}

// transcribe runs whisper-cli next to the WAV so any stray side outputs stay
// in the download's temp dir, and returns the path of its JSON output.
func (t *implLocal) transcribe(ctx context.Context, wavPath, language string) (string, error) {
	prefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", wavPath,
		"-oj",
		"-l", language,
		"-t", strconv.Itoa(t.cfg.Threads),
		"-bo", strconv.Itoa(t.cfg.BestOf),
		"-bs", "5",
		"--output-file", prefix,
	}
	if t.cfg.Prompt != "" {
		args = append(args, "--prompt", t.cfg.Prompt)
	}

	t.logger.Info(ctx, "Transcribing with Whisper (%d threads, lang=%s)", t.cfg.Threads, language)
	if _, err := t.executor.ExecuteInDir(ctx, filepath.Dir(wavPath), t.cfg.BinaryPath, args...); err != nil {
		t.cleanupTempFile(ctx, prefix+".json")
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	return prefix + ".json", nil
}

func readWhisperJSON(path string) ([]models.TimestampedLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	lines := make([]models.TimestampedLine, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		lines = append(lines, models.TimestampedLine{
			Offset: float64(seg.Offsets.From) / 1000,
			Text:   strings.TrimSpace(seg.Text),
		})
	}
	return lines, nil
}

// cleanupTempFile removes an intermediate file, logs warning if fails
func (t *implLocal) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
		return
	}
	t.logger.Debug(ctx, "Cleaned up temp file: %s", path)
}
