package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Document is everything a rendered summary shows.
type Document struct {
	Title            string
	URL              string
	TranscriptSource string
	Kind             string
	Provider         string
	Summary          string
	Transcript       string
	CreatedAt        time.Time
}

func (d Document) metadata() []string {
	var meta []string
	if d.URL != "" {
		meta = append(meta, "Source: "+d.URL)
	}
	if d.TranscriptSource != "" {
		meta = append(meta, "Transcript: "+d.TranscriptSource)
	}
	if d.Kind != "" {
		meta = append(meta, "Summary: "+d.Kind)
	}
	if d.Provider != "" {
		meta = append(meta, "Model: "+d.Provider)
	}
	if !d.CreatedAt.IsZero() {
		meta = append(meta, d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return meta
}

// RenderMarkdown renders the summary, and the transcript when present, as markdown.
func RenderMarkdown(d Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	if meta := d.metadata(); len(meta) > 0 {
		fmt.Fprintf(&b, "_%s_\n\n", strings.Join(meta, " · "))
	}
	b.WriteString(strings.TrimSpace(d.Summary))
	b.WriteString("\n")

	if t := strings.TrimSpace(d.Transcript); t != "" {
		b.WriteString("\n---\n\n## Transcript\n\n")
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				// two trailing spaces keep one markdown line per transcript line
				b.WriteString(line + "  \n")
			}
		}
	}
	return b.String()
}
