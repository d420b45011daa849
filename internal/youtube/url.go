package youtube

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

const errInvalidURL = "Invalid YouTube URL"

var (
	videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#\s]*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([\w-]{11})(?:[^\w-]|$)`)

	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#\s]*&)?v=[\w-]+`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/[\w-]+`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/[\w-]+`),
		regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/[\w-]+`),
	}
)

// ExtractVideoID returns the 11-character video ID from a watch, short link,
// embed or shorts URL. It does not touch the network.
func ExtractVideoID(url string) (string, error) {
	if err := ValidateURL(url); err != nil {
		return "", err
	}
	m := videoIDPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", &models.ValidationError{Field: "url", Message: errInvalidURL}
	}
	return m[1], nil
}

// ValidateURL checks url against the accepted YouTube URL shapes.
func ValidateURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return &models.ValidationError{Field: "url", Message: errInvalidURL}
	}
	for _, p := range urlPatterns {
		if p.MatchString(url) {
			return nil
		}
	}
	return &models.ValidationError{Field: "url", Message: errInvalidURL}
}

// WatchURL is the canonical URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
