package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/summarizer"
)

var transcriptRule = strings.Repeat("=", 80)

// writeOutputs writes base.md and base.docx when the document carries a
// summary, and base_transcript.txt when withTranscript is set. A failure
// removes whatever this call already wrote.
func (p *implProcessor) writeOutputs(ctx context.Context, base string, doc summarizer.Document, withTranscript bool) ([]string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	fail := func(err error) ([]string, error) {
		for _, path := range written {
			p.cleanupTempFile(ctx, path)
		}
		return nil, err
	}

	if doc.Summary != "" {
		mdPath := filepath.Join(p.cfg.Paths.Output, base+".md")
		if err := os.WriteFile(mdPath, []byte(summarizer.RenderMarkdown(doc)), 0644); err != nil {
			return fail(fmt.Errorf("write markdown: %w", err))
		}
		written = append(written, mdPath)

		docxPath := filepath.Join(p.cfg.Paths.Output, base+".docx")
		if err := summarizer.WriteSummaryDocx(docxPath, doc); err != nil {
			return fail(fmt.Errorf("write docx: %w", err))
		}
		written = append(written, docxPath)
	}

	if withTranscript && strings.TrimSpace(doc.Transcript) != "" {
		txtPath := filepath.Join(p.cfg.Paths.Output, base+"_transcript.txt")
		if err := os.WriteFile(txtPath, []byte(renderTranscriptFile(doc)), 0644); err != nil {
			return fail(fmt.Errorf("write transcript: %w", err))
		}
		written = append(written, txtPath)
	}

	return written, nil
}

// renderTranscriptFile frames the transcript between separator lines so the
// file can be fed back through the upload inbox unchanged.
func renderTranscriptFile(doc summarizer.Document) string {
	var b strings.Builder
	b.WriteString("TRANSCRIPT\n")
	if doc.URL != "" {
		fmt.Fprintf(&b, "Video: %s\n", doc.URL)
	}
	if doc.TranscriptSource != "" {
		fmt.Fprintf(&b, "Source: %s\n", strings.ToUpper(doc.TranscriptSource))
	}
	if !doc.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\n" + transcriptRule + "\n\n")
	b.WriteString(strings.TrimSpace(doc.Transcript))
	b.WriteString("\n\n" + transcriptRule + "\n")
	return b.String()
}
