// Package models holds the value objects shared by the acquisition and
// summarization pipelines.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// Source records which acquisition stage produced a transcript.
type Source string

const (
	SourceCaption        Source = "caption"
	SourceLocalModel     Source = "local_model"
	SourceRemoteDiarized Source = "remote_diarized"
)

// TranscriptResult is the immutable outcome of a successful acquisition.
type TranscriptResult struct {
	Text    string `json:"text"`
	Source  Source `json:"source"`
	VideoID string `json:"video_id,omitempty"`
}

// NewTranscriptResult builds a result, refusing empty text: an empty
// transcript is a failure, never a success with no content.
func NewTranscriptResult(text string, source Source, videoID string) (*TranscriptResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &TranscriptError{Source: string(source), Message: "empty transcript"}
	}
	return &TranscriptResult{Text: text, Source: source, VideoID: videoID}, nil
}

// TimestampedLine is one line of a transcript body.
type TimestampedLine struct {
	Offset  float64 `json:"offset_seconds"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
}

// String renders the line as "[MM:SS] Speaker: text".
func (l TimestampedLine) String() string {
	var b strings.Builder
	b.WriteString(FormatTimestamp(l.Offset))
	b.WriteByte(' ')
	if l.Speaker != "" {
		b.WriteString(l.Speaker)
		b.WriteString(": ")
	}
	b.WriteString(strings.TrimSpace(l.Text))
	return b.String()
}

// FormatTimestamp converts seconds into [MM:SS], or [HH:MM:SS] from one hour on.
// Fractions are truncated and negative offsets clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("[%02d:%02d:%02d]", hours, minutes, secs)
	}
	return fmt.Sprintf("[%02d:%02d]", minutes, secs)
}

// FormatLines renders lines one per row, ordered by offset. Lines whose text
// is only whitespace are dropped.
func FormatLines(lines []TimestampedLine) string {
	kept := make([]TimestampedLine, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		kept = append(kept, l)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Offset < kept[j].Offset })

	rendered := make([]string, len(kept))
	for i, l := range kept {
		rendered[i] = l.String()
	}
	return strings.Join(rendered, "\n")
}
