// Package upload validates and parses transcript files supplied by users.
package upload

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

// Separator marks the header and footer blocks of an exported transcript.
const Separator = "===================="

const maxFilenameLen = 255

var (
	reUnsafe     = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)
	reUnderscore = regexp.MustCompile(`_{2,}`)
	reDots       = regexp.MustCompile(`\.{2,}`)
	reDashes     = regexp.MustCompile(`-{2,}`)
)

// Validate checks an uploaded file's name and size. maxSize <= 0 disables the
// size check; an empty extension list allows only .txt.
func Validate(filename string, size, maxSize int64, extensions []string) error {
	if strings.TrimSpace(filename) == "" {
		return &models.ValidationError{Field: "file", Message: "Empty filename"}
	}

	if len(extensions) == 0 {
		extensions = []string{".txt"}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			allowed = true
			break
		}
	}
	if !allowed {
		return &models.ValidationError{Field: "file", Message: fmt.Sprintf("Only %s files allowed", strings.Join(extensions, ", "))}
	}

	if maxSize > 0 && size > maxSize {
		return &models.ValidationError{Field: "file", Message: fmt.Sprintf("File too large (max %dMB)", maxSize/(1024*1024))}
	}
	return nil
}

// Parse returns the transcript between the first and last separator lines.
// Content without a usable separator block is returned trimmed.
func Parse(content string) string {
	lines := strings.Split(content, "\n")

	start := 0
	for i, line := range lines {
		if strings.Contains(line, Separator) {
			start = i + 1
			break
		}
	}

	end := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], Separator) {
			end = i
			break
		}
	}

	if start < end {
		if body := strings.TrimSpace(strings.Join(lines[start:end], "\n")); body != "" {
			return body
		}
	}
	return strings.TrimSpace(content)
}

// SanitizeFilename keeps letters, digits, dot, dash and underscore, collapses
// runs, and never returns an empty name.
func SanitizeFilename(name string) string {
	safe := reUnsafe.ReplaceAllString(name, "_")
	safe = reUnderscore.ReplaceAllString(safe, "_")
	safe = reDots.ReplaceAllString(safe, ".")
	safe = reDashes.ReplaceAllString(safe, "-")
	safe = strings.Trim(safe, "._- ")

	if len(safe) > maxFilenameLen {
		ext := filepath.Ext(safe)
		if len(ext) >= maxFilenameLen {
			ext = ""
		}
		safe = safe[:maxFilenameLen-len(ext)] + ext
	}

	if safe == "" {
		return "unnamed"
	}
	return safe
}
