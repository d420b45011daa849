package upload

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyentantai21042004/tubedigest/internal/models"
)

func TestValidate(t *testing.T) {
	const mb = 1024 * 1024
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{"ok", "talk.txt", 100, ""},
		{"upper case ext", "TALK.TXT", 100, ""},
		{"empty name", "", 1, "Empty filename"},
		{"wrong ext", "talk.pdf", 1, "Only .txt files allowed"},
		{"no ext", "talk", 1, "Only .txt files allowed"},
		{"too large", "talk.txt", 5*mb + 1, "File too large (max 5MB)"},
		{"at limit", "talk.txt", 5 * mb, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.filename, tt.size, 5*mb, []string{".txt"})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ve *models.ValidationError
			if assert.True(t, errors.As(err, &ve)) {
				assert.Equal(t, tt.wantErr, ve.Message)
			}
		})
	}
}

func TestParse(t *testing.T) {
	sep := Separator
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"header and footer", "Title\n" + sep + "\nline 1\nline 2\n" + sep + "\nfooter", "line 1\nline 2"},
		{"no separator", "  just text \n", "just text"},
		{"single separator", "header\n" + sep + "\nbody", "header\n" + sep + "\nbody"},
		{"long separator line", "h\n" + strings.Repeat("=", 80) + "\nbody\n" + strings.Repeat("=", 80), "body"},
		{"empty between", "h\n" + sep + "\n\n" + sep + "\nf", "h\n" + sep + "\n\n" + sep + "\nf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.content))
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"my talk.txt":         "my_talk.txt",
		"../../etc/passwd":    "etc_passwd",
		"a...b---c___d.txt":   "a.b-c_d.txt",
		"żółć.txt":            "txt",
		"":                    "unnamed",
		"...":                 "unnamed",
		"ok-name_1.txt":       "ok-name_1.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}

	long := strings.Repeat("a", 300) + ".txt"
	got := SanitizeFilename(long)
	assert.Len(t, got, 255)
	assert.True(t, strings.HasSuffix(got, ".txt"))
}
