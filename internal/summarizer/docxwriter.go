package summarizer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
	reSpeaker  = regexp.MustCompile(`^(\[\d{1,2}:\d{2}(?::\d{2})?\])\s*([^:\[\]]{1,40}):\s*(.*)$`)
)

// WriteSummaryDocx writes the summary with an optional transcript appendix.
func WriteSummaryDocx(path string, d Document) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), d.Title, true, 16)
	if meta := d.metadata(); len(meta) > 0 {
		doc.AddParagraph("").AddText(strings.Join(meta, " · ")).Font(fontName).Size(11).Color("555555").Italic(true)
	}
	doc.AddParagraph("")

	writeMarkdown(doc, d.Summary)

	if strings.TrimSpace(d.Transcript) != "" {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Transcript", true, headingSize(2))
		writeTranscript(doc, d.Transcript)
	}

	return doc.SaveTo(path)
}

func writeMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		if reNumbered.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}
}

// writeTranscript emits one paragraph per line. Speaker-attributed lines get
// a grey timestamp and a bold speaker label.
func writeTranscript(doc *docx.RootDoc, transcript string) {
	for _, line := range strings.Split(transcript, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		p := doc.AddParagraph("")
		if ts, speaker, text, ok := splitSpeakerLine(trimmed); ok {
			p.AddText(ts+" ").Font(fontName).Size(11).Color("777777")
			p.AddText(speaker+": ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
			p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
			continue
		}
		p.AddText(trimmed).Font(fontName).Size(fontSize).Color("000000")
	}
}

func splitSpeakerLine(line string) (ts, speaker, text string, ok bool) {
	m := reSpeaker.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), strings.TrimSpace(m[3]), true
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
